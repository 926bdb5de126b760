package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/homewatch/dashboard/internal/model"
)

var (
	ErrDeviceNameTooShort = errors.New("device name must be at least 2 characters")
	ErrLocationTooShort   = errors.New("location must be at least 2 characters")
	ErrDeviceModelInvalid = errors.New("please select a device model")
)

// ValidateDoorbell checks the device registration form.
func ValidateDoorbell(name, location, deviceModel string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		return ErrDeviceNameTooShort
	}
	if utf8.RuneCountInString(strings.TrimSpace(location)) < 2 {
		return ErrLocationTooShort
	}
	if !model.IsDoorbellModel(deviceModel) {
		return ErrDeviceModelInvalid
	}
	return nil
}
