package lod

import "math"

// VehicleLevels returns the default tier table for vehicles. Vehicles
// keep animating at range longer than zombies because wheel and
// suspension motion reads at a distance.
func VehicleLevels() []Level {
	return []Level{
		{
			Name:        "high",
			MaxDistance: 50,
			Detail: Detail{
				GeometryRef:   "vehicle_high",
				MaterialRef:   "vehicle_pbr",
				AnimationRate: 1.0,
				ShowSecondary: true,
				Visible:       true,
				Scale:         1.0,
			},
		},
		{
			Name:        "medium",
			MaxDistance: 120,
			Detail: Detail{
				GeometryRef:   "vehicle_medium",
				MaterialRef:   "vehicle_pbr",
				AnimationRate: 0.5,
				ShowSecondary: true,
				Visible:       true,
				Scale:         1.0,
			},
		},
		{
			Name:        "low",
			MaxDistance: 250,
			Detail: Detail{
				GeometryRef:   "vehicle_low",
				MaterialRef:   "vehicle_flat",
				AnimationRate: 0.25,
				ShowSecondary: false,
				Visible:       true,
				Scale:         1.0,
			},
		},
		{
			Name:        "culled",
			MaxDistance: math.Inf(1),
			Detail: Detail{
				AnimationRate: 0,
				Visible:       false,
				Scale:         1.0,
			},
		},
	}
}

// ZombieLevels returns the default tier table for zombies. The horde is
// numerous, so thresholds are tighter than for vehicles and far zombies
// stop animating entirely.
func ZombieLevels() []Level {
	return []Level{
		{
			Name:        "high",
			MaxDistance: 50,
			Detail: Detail{
				GeometryRef:   "zombie_high",
				MaterialRef:   "zombie_skinned",
				AnimationRate: 1.0,
				ShowSecondary: true,
				Visible:       true,
				Scale:         1.0,
			},
		},
		{
			Name:        "medium",
			MaxDistance: 100,
			Detail: Detail{
				GeometryRef:   "zombie_medium",
				MaterialRef:   "zombie_skinned",
				AnimationRate: 0.5,
				ShowSecondary: false,
				Visible:       true,
				Scale:         1.0,
			},
		},
		{
			Name:        "low",
			MaxDistance: 200,
			Detail: Detail{
				GeometryRef:   "zombie_low",
				MaterialRef:   "zombie_flat",
				AnimationRate: 0.1,
				ShowSecondary: false,
				Visible:       true,
				Scale:         1.0,
			},
		},
		{
			Name:        "culled",
			MaxDistance: math.Inf(1),
			Detail: Detail{
				AnimationRate: 0,
				Visible:       false,
				Scale:         1.0,
			},
		},
	}
}
