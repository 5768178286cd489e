// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// warehouseIDPattern is the character whitelist for BigQuery project and
// dataset identifiers. These are interpolated into table paths, so anything
// outside the whitelist (backticks, dots, whitespace) is rejected outright.
var warehouseIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks the configuration with go-playground/validator and returns
// a readable aggregate error on failure.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("warehouse_id", func(fl validator.FieldLevel) bool {
		return warehouseIDPattern.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register warehouse_id validation: %w", err)
	}

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, describeFieldError(fe))
	}
	return fmt.Errorf("invalid configuration: %v", messages)
}

// describeFieldError converts a validator field error into a message that
// names the offending field without echoing credential values.
func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "warehouse_id":
		return fmt.Sprintf("%s may only contain letters, digits, hyphens and underscores", fe.Namespace())
	case "email":
		return fmt.Sprintf("%s must be a valid service-account email", fe.Namespace())
	case "min", "max":
		return fmt.Sprintf("%s is out of range (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}
