package cl

import "errors"

// fakeProvider serves canned platforms. Device IDs are assigned in
// declaration order across platforms.
type fakeProvider struct {
	platforms []fakePlatform
	listErr   error
	// queries records every DeviceIDs call as "platform:filter".
	queries []string
}

type fakePlatform struct {
	info    PlatformInfo
	devices []DeviceInfo
}

func (f *fakeProvider) PlatformIDs() ([]PlatformID, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]PlatformID, len(f.platforms))
	for i := range ids {
		ids[i] = PlatformID(i)
	}
	return ids, nil
}

func (f *fakeProvider) PlatformInfo(id PlatformID) (PlatformInfo, error) {
	if int(id) >= len(f.platforms) {
		return PlatformInfo{}, errors.New("bad platform")
	}
	return f.platforms[id].info, nil
}

func (f *fakeProvider) DeviceIDs(platform PlatformID, filter DeviceType) ([]DeviceID, error) {
	f.queries = append(f.queries, string(rune('0'+int(platform)))+":"+string(filter))
	if int(platform) >= len(f.platforms) {
		return nil, errors.New("bad platform")
	}

	base := 0
	for i := 0; i < int(platform); i++ {
		base += len(f.platforms[i].devices)
	}

	var ids []DeviceID
	for i, d := range f.platforms[platform].devices {
		if filter == DeviceTypeAll || d.Type == filter {
			ids = append(ids, DeviceID(base+i))
		}
	}
	return ids, nil
}

func (f *fakeProvider) DeviceInfo(id DeviceID) (DeviceInfo, error) {
	n := int(id)
	for _, p := range f.platforms {
		if n < len(p.devices) {
			return p.devices[n], nil
		}
		n -= len(p.devices)
	}
	return DeviceInfo{}, errors.New("bad device")
}
