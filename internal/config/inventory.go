package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"netbot/internal/device"
)

// Environment fallback for device parameters, used when the inventory file
// is absent or empty.
const (
	EnvDeviceType     = "NETBOT_DEVICE_TYPE"
	EnvDeviceHost     = "NETBOT_DEVICE_HOST"
	EnvDeviceUsername = "NETBOT_DEVICE_USERNAME"
	EnvDevicePassword = "NETBOT_DEVICE_PASSWORD"

	defaultDeviceType = "cisco_ios"
)

// LoadDevice resolves the device parameters once at startup: a non-empty
// YAML inventory wins and its first entry is used; otherwise the
// NETBOT_DEVICE_* environment variables are consulted. A result with any
// empty field is a fatal configuration error.
func LoadDevice(path string, logger *slog.Logger) (device.Params, error) {
	if params, ok, err := deviceFromYAML(path); err != nil {
		return device.Params{}, err
	} else if ok {
		logger.Debug("device loaded from inventory", "path", path, "host", params.Host)
		if err := params.Validate(); err != nil {
			return device.Params{}, fmt.Errorf("inventory %s: %w", path, err)
		}
		return params, nil
	}

	params := deviceFromEnv()
	if err := params.Validate(); err != nil {
		return device.Params{}, fmt.Errorf("no usable inventory at %s and environment incomplete: %w", path, err)
	}
	logger.Debug("device loaded from environment", "host", params.Host)
	return params, nil
}

// deviceFromYAML reads the inventory file and returns its first entry.
// A missing file or an empty list is not an error; it just means fall back.
func deviceFromYAML(path string) (device.Params, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return device.Params{}, false, nil
		}
		return device.Params{}, false, fmt.Errorf("cannot read inventory %s: %w", path, err)
	}

	var devices []device.Params
	if err := yaml.Unmarshal(data, &devices); err != nil {
		return device.Params{}, false, fmt.Errorf("cannot parse inventory %s: %w", path, err)
	}
	if len(devices) == 0 {
		return device.Params{}, false, nil
	}
	return devices[0], true, nil
}

func deviceFromEnv() device.Params {
	deviceType := os.Getenv(EnvDeviceType)
	if deviceType == "" {
		deviceType = defaultDeviceType
	}
	return device.Params{
		DeviceType: deviceType,
		Host:       os.Getenv(EnvDeviceHost),
		Username:   os.Getenv(EnvDeviceUsername),
		Password:   os.Getenv(EnvDevicePassword),
	}
}
