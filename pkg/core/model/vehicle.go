// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// VehicleClass specifies the class of a parked vehicle which selects
// the applicable per-minute parking rate. Although this enum is
// numeric, it is (de)serialized as a string for readability in the
// adapter layer.
type VehicleClass int

// Valid values for the VehicleClass enum.
const (
	VehicleClassInvalid VehicleClass = iota // zero value is invalid

	VehicleClassCar        // four-wheeler, billed with the car rate
	VehicleClassMotorcycle // two-wheeler, billed with the moto rate
)

// ErrUnknownVehicleClass indicates that a given string may not be
// parsed as a valid/known vehicle class. The invalid string itself is
// not encoded in the error because the caller of Parse already knows
// about it and is responsible to wrap this error with that context.
var ErrUnknownVehicleClass = errors.New("unknown vehicle class")

// VehicleClassError indicates an invalid vehicle class, containing
// the invalid class as an integer.
type VehicleClassError int

// Error implements the error interface, returning a string
// representation of the VehicleClassError.
func (e VehicleClassError) Error() string {
	return fmt.Sprintf("invalid vehicle class: %d", int(e))
}

// Validate returns nil if VehicleClass value is valid. For invalid
// values, an instance of the VehicleClassError will be returned.
func (v VehicleClass) Validate() error {
	switch v {
	case VehicleClassCar, VehicleClassMotorcycle:
		return nil
	default:
		return VehicleClassError(v)
	}
}

// String converts the VehicleClass enum to a string, helping to
// serialize it for transmission to web clients. Invalid vehicle
// class causes a panic.
func (v VehicleClass) String() string {
	switch v {
	case VehicleClassCar:
		return "car"
	case VehicleClassMotorcycle:
		return "motorcycle"
	default:
		panic(VehicleClassError(v))
	}
}

// ParseVehicleClass parses the given string and returns a
// VehicleClass, helping to deserialize it when reading a REST API
// request. For invalid strings, VehicleClassInvalid and
// ErrUnknownVehicleClass will be returned.
func ParseVehicleClass(v string) (VehicleClass, error) {
	switch v {
	case "car":
		return VehicleClassCar, nil
	case "motorcycle":
		return VehicleClassMotorcycle, nil
	default:
		return VehicleClassInvalid, ErrUnknownVehicleClass
	}
}
