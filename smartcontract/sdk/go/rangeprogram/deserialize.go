package rangeprogram

import "fmt"

// DeserializeSettings deserializes binary data into a SettingsAccount.
// It validates the account discriminator and size before decoding.
func DeserializeSettings(data []byte) (*SettingsAccount, error) {
	if err := validateDiscriminator(data, DiscriminatorSettings); err != nil {
		return nil, err
	}
	if len(data) < SettingsAccountSize {
		return nil, fmt.Errorf("account data too short: %d bytes, want %d", len(data), SettingsAccountSize)
	}

	var settings SettingsAccount
	if err := settings.Deserialize(data); err != nil {
		return nil, fmt.Errorf("failed to deserialize settings: %w", err)
	}
	return &settings, nil
}
