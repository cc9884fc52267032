package device

// Platform represents a simulator runtime platform
type Platform string

const (
	PlatformIOS      Platform = "ios"
	PlatformMacOS    Platform = "macos"
	PlatformWatchOS  Platform = "watchos"
	PlatformTVOS     Platform = "tvos"
	PlatformVisionOS Platform = "visionos"
)

// SystemName returns the name the platform reports for itself on device.
func (p Platform) SystemName() string {
	switch p {
	case PlatformIOS:
		return "iOS"
	case PlatformMacOS:
		return "macOS"
	case PlatformWatchOS:
		return "watchOS"
	case PlatformTVOS:
		return "tvOS"
	case PlatformVisionOS:
		return "visionOS"
	default:
		return string(p)
	}
}

// Family is the hardware family of a device, as reported by UIDevice.model.
type Family string

const (
	FamilyIPhone  Family = "iPhone"
	FamilyIPad    Family = "iPad"
	FamilyTV      Family = "Apple TV"
	FamilyWatch   Family = "Apple Watch"
	FamilyVision  Family = "Apple Vision"
	FamilyUnknown Family = "unknown"
)

// DeviceState represents the current state of a simulator
type DeviceState string

const (
	StateShutdown     DeviceState = "Shutdown"
	StateBooted       DeviceState = "Booted"
	StateBooting      DeviceState = "Booting"
	StateShuttingDown DeviceState = "Shutting Down"
)

// Device is one simulator known to simctl
type Device struct {
	UDID         string      `json:"udid"`
	Name         string      `json:"name"`
	DeviceTypeID string      `json:"device_type_id"`
	Family       Family      `json:"family"`
	Platform     Platform    `json:"platform"`
	OSVersion    string      `json:"os_version"`
	State        DeviceState `json:"state"`
	IsAvailable  bool        `json:"is_available"`
}

// SupportsPictureInPicture reports whether the device's family and runtime
// provide AVPictureInPictureController.
func (d *Device) SupportsPictureInPicture() bool {
	return SupportsPictureInPicture(d.Family, d.Platform, d.OSVersion)
}
