package providerdrv

import "github.com/northroot-labs/dnsops/domain/model"

// Driver is a provider implementation of the DNS capability port.
// Implementations live under adapters/drivers/provider/<name> and should
// return an identifier such as "cloudflare" via ID().
type Driver interface {
	model.ProviderPort
}

// driverFactory is a constructor function for a provider driver.
type driverFactory func(settings map[string]string) (Driver, error)

// registry holds registered drivers by name.
var registry = map[string]driverFactory{}

// Register makes a driver available by the given name. Drivers should
// call this from their init() function.
func Register(name string, factory driverFactory) {
	registry[name] = factory
}

// GetDriverFactory returns the driver factory function for the given name.
func GetDriverFactory(name string) (driverFactory, bool) {
	factory, exists := registry[name]
	return factory, exists
}
