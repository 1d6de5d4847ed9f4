//go:build windows

package blocker

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

type registryValue struct {
	path  string
	name  string
	dword uint32
	str   string
}

var dohRegistryValues = []registryValue{
	{path: `SYSTEM\CurrentControlSet\Services\Dnscache\Parameters`, name: "EnableAutoDoh", dword: 0},
	{path: `SOFTWARE\Policies\Microsoft\Windows NT\DNSClient`, name: "DoHPolicy", dword: 0},
	{path: `SOFTWARE\Policies\Google\Chrome`, name: "DnsOverHttpsMode", str: "off"},
	{path: `SOFTWARE\Policies\Microsoft\Edge`, name: "DnsOverHttpsMode", str: "off"},
}

// disableSystemDoH writes the DoH policy values under HKLM.
func disableSystemDoH() error {
	var errs []error
	for _, v := range dohRegistryValues {
		k, _, err := registry.CreateKey(registry.LOCAL_MACHINE, v.path, registry.SET_VALUE)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if v.str != "" {
			err = k.SetStringValue(v.name, v.str)
		} else {
			err = k.SetDWordValue(v.name, v.dword)
		}
		k.Close()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
