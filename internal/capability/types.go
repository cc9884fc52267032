package capability

import "context"

// DeviceInfo is a snapshot of the device descriptors read during one support check.
type DeviceInfo struct {
	Model         string `json:"model"`
	SystemName    string `json:"systemName"`
	SystemVersion string `json:"systemVersion"`
	IsSimulator   bool   `json:"isSimulator,string"`
}

// SupportResult answers whether picture-in-picture is structurally possible.
type SupportResult struct {
	IsSupported bool       `json:"isSupported"`
	DeviceInfo  DeviceInfo `json:"deviceInfo"`
}

// Probe reads the platform capability flag and device descriptors.
type Probe interface {
	PictureInPictureSupported(ctx context.Context) (bool, error)
	Describe(ctx context.Context) (DeviceInfo, error)
}
