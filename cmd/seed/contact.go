package main

import (
	"context"
	"strings"

	"github.com/valeriy167/paint-store/internal/app/service"
)

// contactEnv maps SEED_CONTACT_* variables onto contact info fields.
var contactEnv = []string{
	"SEED_CONTACT_EMAIL",
	"SEED_CONTACT_PHONE",
	"SEED_CONTACT_ADDRESS",
	"SEED_CONTACT_TELEGRAM",
	"SEED_CONTACT_WORKING_HOURS",
}

// seedContactInfo copies the non-empty SEED_CONTACT_* values into the
// contact info singleton. Fields without a value keep what is stored.
func seedContactInfo(ctx context.Context, contacts service.ContactService, getenv func(string) string) (bool, error) {
	values := make(map[string]string, len(contactEnv))
	for _, key := range contactEnv {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			values[key] = v
		}
	}
	if len(values) == 0 {
		return false, nil
	}

	info, err := contacts.Get(ctx)
	if err != nil {
		return false, err
	}

	if v, ok := values["SEED_CONTACT_EMAIL"]; ok {
		info.Email = v
	}
	if v, ok := values["SEED_CONTACT_PHONE"]; ok {
		info.Phone = v
	}
	if v, ok := values["SEED_CONTACT_ADDRESS"]; ok {
		info.Address = v
	}
	if v, ok := values["SEED_CONTACT_TELEGRAM"]; ok {
		info.Telegram = v
	}
	if v, ok := values["SEED_CONTACT_WORKING_HOURS"]; ok {
		info.WorkingHours = v
	}

	if err := contacts.Update(ctx, info); err != nil {
		return false, err
	}
	return true, nil
}
