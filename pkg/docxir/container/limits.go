package container

// Limits bounds what Decode accepts. Zero fields take the defaults.
type Limits struct {
	MaxParts     int
	MaxPartSize  uint64 // uncompressed bytes of a single entry
	MaxTotalSize uint64 // uncompressed bytes of all entries
}

func defaultLimits() Limits {
	return Limits{
		MaxParts:     4096,
		MaxPartSize:  64 << 20,  // 64 MiB
		MaxTotalSize: 512 << 20, // 512 MiB
	}
}

// DefaultLimits returns the limits Decode applies when none are given.
func DefaultLimits() Limits {
	return defaultLimits()
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxParts == 0 {
		l.MaxParts = d.MaxParts
	}
	if l.MaxPartSize == 0 {
		l.MaxPartSize = d.MaxPartSize
	}
	if l.MaxTotalSize == 0 {
		l.MaxTotalSize = d.MaxTotalSize
	}
	return l
}
