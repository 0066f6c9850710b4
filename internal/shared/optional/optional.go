// Package optional provides JSON field wrappers that distinguish between
// an absent field, an explicit null, and a value. Partial updates need
// all three states.
package optional

import (
	"encoding/json"

	"github.com/google/uuid"
)

type String struct {
	Value *string
	Set   bool
}

func (o String) IsZero() bool {
	return !o.Set
}

// Null reports whether the field was present as an explicit JSON null.
func (o String) Null() bool {
	return o.Set && o.Value == nil
}

func (o *String) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.Value = &raw
	return nil
}

type Int struct {
	Value *int
	Set   bool
}

func (o Int) IsZero() bool {
	return !o.Set
}

func (o Int) Null() bool {
	return o.Set && o.Value == nil
}

func (o *Int) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.Value = &raw
	return nil
}

type Float struct {
	Value *float64
	Set   bool
}

func (o Float) IsZero() bool {
	return !o.Set
}

func (o Float) Null() bool {
	return o.Set && o.Value == nil
}

func (o *Float) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.Value = &raw
	return nil
}

type Bool struct {
	Value *bool
	Set   bool
}

func (o Bool) IsZero() bool {
	return !o.Set
}

func (o Bool) Null() bool {
	return o.Set && o.Value == nil
}

func (o *Bool) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.Value = &raw
	return nil
}

type UUID struct {
	Value *uuid.UUID
	Set   bool
}

func (o UUID) IsZero() bool {
	return !o.Set
}

// Null reports whether the field was present as an explicit JSON null.
// An empty string decodes to the same state; both mean "no reference".
func (o UUID) Null() bool {
	return o.Set && o.Value == nil
}

func (o *UUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		if raw == "" {
			o.Value = nil
			return nil
		}

		parsed, err := uuid.Parse(raw)
		if err != nil {
			return err
		}

		o.Value = &parsed
		return nil
	}

	var parsed uuid.UUID
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	o.Value = &parsed
	return nil
}
