package texture

// Format names the hardware compression format a variant would use.
// Actual bit-level compression belongs to the rendering collaborator;
// the reducer only selects the format and resizes accordingly.
type Format int

const (
	FormatUncompressed Format = iota
	FormatS3TC
	FormatETC2
	FormatASTC
)

func (f Format) String() string {
	switch f {
	case FormatASTC:
		return "astc"
	case FormatETC2:
		return "etc2"
	case FormatS3TC:
		return "s3tc"
	default:
		return "uncompressed"
	}
}

// HardwareCaps reports which compressed formats the host GPU supports.
type HardwareCaps struct {
	ASTC bool
	ETC2 bool
	S3TC bool
}

// SelectFormat prefers the most advanced supported compression format
// and falls back to uncompressed.
func SelectFormat(caps HardwareCaps) Format {
	switch {
	case caps.ASTC:
		return FormatASTC
	case caps.ETC2:
		return FormatETC2
	case caps.S3TC:
		return FormatS3TC
	default:
		return FormatUncompressed
	}
}
