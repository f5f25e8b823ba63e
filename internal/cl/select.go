package cl

import "fmt"

// Selection is the device chosen by SelectDevice together with the platform
// that owns it. Device handles are not reference counted, so a Selection
// needs no release.
type Selection struct {
	Platform     PlatformID
	Device       DeviceID
	PlatformInfo PlatformInfo
	Info         DeviceInfo
}

// Type returns the device classification of the selected device.
func (s Selection) Type() DeviceType {
	return s.Info.Type
}

// FallbackOrder lists the device filters tried for a preferred type, most
// specific first. Every order ends with DeviceTypeAll.
func FallbackOrder(preferred DeviceType) []DeviceType {
	switch preferred {
	case "", DeviceTypeGPU:
		return []DeviceType{DeviceTypeGPU, DeviceTypeCPU, DeviceTypeAll}
	case DeviceTypeAll:
		return []DeviceType{DeviceTypeAll}
	default:
		return []DeviceType{preferred, DeviceTypeAll}
	}
}

// SelectDevice returns the first device matching the preferred type,
// broadening the filter along FallbackOrder. Each filter is checked against
// every platform before moving to the next one; within a filter the first
// platform reporting a match wins and its first device is returned.
func SelectDevice(p Provider, preferred DeviceType) (Selection, error) {
	platforms, err := p.PlatformIDs()
	if err != nil {
		return Selection{}, fmt.Errorf("list platforms: %w", err)
	}
	if len(platforms) == 0 {
		return Selection{}, fmt.Errorf("%w: no platforms", ErrDeviceNotFound)
	}

	filters := FallbackOrder(preferred)
	for _, filter := range filters {
		for _, platform := range platforms {
			devices, err := p.DeviceIDs(platform, filter)
			if err != nil {
				return Selection{}, fmt.Errorf("list %s devices: %w", filter, err)
			}
			if len(devices) == 0 {
				continue
			}
			return describeSelection(p, platform, devices[0])
		}
	}

	return Selection{}, fmt.Errorf("%w: tried %v on %d platform(s)", ErrDeviceNotFound, filters, len(platforms))
}

func describeSelection(p Provider, platform PlatformID, device DeviceID) (Selection, error) {
	pinfo, err := p.PlatformInfo(platform)
	if err != nil {
		return Selection{}, err
	}
	dinfo, err := p.DeviceInfo(device)
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Platform:     platform,
		Device:       device,
		PlatformInfo: pinfo,
		Info:         dinfo,
	}, nil
}

// Enumerate returns every platform with all of its devices described.
func Enumerate(p Provider) ([]PlatformInfo, error) {
	platforms, err := p.PlatformIDs()
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}

	out := make([]PlatformInfo, 0, len(platforms))
	for _, platform := range platforms {
		info, err := p.PlatformInfo(platform)
		if err != nil {
			return nil, err
		}

		devices, err := p.DeviceIDs(platform, DeviceTypeAll)
		if err != nil {
			return nil, fmt.Errorf("list devices of %q: %w", info.Name, err)
		}

		info.Devices = make([]DeviceInfo, 0, len(devices))
		for _, device := range devices {
			dinfo, err := p.DeviceInfo(device)
			if err != nil {
				return nil, err
			}
			info.Devices = append(info.Devices, dinfo)
		}
		out = append(out, info)
	}
	return out, nil
}
