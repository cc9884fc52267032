package device

import (
	"strconv"
	"strings"
)

// minimum OS version, per family, that ships picture-in-picture for AVPlayerLayer
var pipMinimum = map[Family]struct {
	platform Platform
	version  string
}{
	FamilyIPad:   {PlatformIOS, "9.0"},
	FamilyIPhone: {PlatformIOS, "14.0"},
	FamilyTV:     {PlatformTVOS, "14.0"},
	FamilyVision: {PlatformVisionOS, "1.0"},
}

// SupportsPictureInPicture reports whether a device of the given family
// running platform at version can present picture-in-picture.
func SupportsPictureInPicture(family Family, platform Platform, version string) bool {
	req, ok := pipMinimum[family]
	if !ok || req.platform != platform {
		return false
	}
	if version == "" {
		return false
	}
	return compareVersions(version, req.version) >= 0
}

// compareVersions compares dotted numeric versions. Missing components count as zero.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		x, y := versionPart(as, i), versionPart(bs, i)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func versionPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}

func familyFromIdentifier(id string) Family {
	id = strings.ToLower(id)
	switch {
	case strings.Contains(id, "iphone"):
		return FamilyIPhone
	case strings.Contains(id, "ipad"):
		return FamilyIPad
	case strings.Contains(id, "watch"):
		return FamilyWatch
	case strings.Contains(id, "tv"):
		return FamilyTV
	case strings.Contains(id, "vision"):
		return FamilyVision
	default:
		return FamilyUnknown
	}
}
