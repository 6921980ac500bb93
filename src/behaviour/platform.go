package behaviour

// Platform identifies the build-matrix cell the orchestrator is running.
type Platform struct {
	name  string
	known bool
}

// Recognised platforms.
var (
	WindowsX86 = Platform{name: "Windows-x86", known: true}
	WindowsX64 = Platform{name: "Windows-x64", known: true}
	LinuxX86   = Platform{name: "Linux-x86", known: true}
	LinuxX64   = Platform{name: "Linux-x64", known: true}
	LinuxARM   = Platform{name: "Linux-ARM", known: true}
	MacX86     = Platform{name: "Mac-x86", known: true}
	MacX64     = Platform{name: "Mac-x64", known: true}
)

var platforms = []Platform{
	WindowsX86, WindowsX64,
	LinuxX86, LinuxX64, LinuxARM,
	MacX86, MacX64,
}

// ParsePlatform maps an orchestrator platform identifier to a Platform.
// Unrecognised identifiers are kept verbatim with Known() == false; they are
// a valid value that simply never matches the packaging platform.
func ParsePlatform(s string) Platform {
	for _, p := range platforms {
		if p.name == s {
			return p
		}
	}
	return Platform{name: s}
}

// Platforms returns the recognised platforms.
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// String returns the orchestrator identifier.
func (p Platform) String() string { return p.name }

// Known reports whether p is one of the recognised platforms.
func (p Platform) Known() bool { return p.known }

// IsZero reports whether no platform was supplied.
func (p Platform) IsZero() bool { return p.name == "" }
