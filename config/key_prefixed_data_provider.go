/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"io"
	"time"
)

// KeyPrefixedDataProvider is a DataProvider implementation
// that uses other DataProvider under the hood and adds a prefix for all keys.
type KeyPrefixedDataProvider struct {
	delegate  DataProvider
	keyPrefix string
}

var _ DataProvider = (*KeyPrefixedDataProvider)(nil)

// NewKeyPrefixedDataProvider creates a new KeyPrefixedDataProvider.
func NewKeyPrefixedDataProvider(delegate DataProvider, keyPrefix string) *KeyPrefixedDataProvider {
	return &KeyPrefixedDataProvider{delegate, keyPrefix}
}

func (pdp *KeyPrefixedDataProvider) makeKey(key string) string {
	if pdp.keyPrefix == "" {
		return key
	}
	return pdp.keyPrefix + "." + key
}

// UseEnvVars enables the ability to use environment variables for configuration parameters.
func (pdp *KeyPrefixedDataProvider) UseEnvVars(prefix string) {
	pdp.delegate.UseEnvVars(prefix)
}

// Set sets the value for the key in the override register.
func (pdp *KeyPrefixedDataProvider) Set(key string, value interface{}) {
	pdp.delegate.Set(pdp.makeKey(key), value)
}

// SetDefault sets the default value for this key.
func (pdp *KeyPrefixedDataProvider) SetDefault(key string, value interface{}) {
	pdp.delegate.SetDefault(pdp.makeKey(key), value)
}

// SetFromFile specifies that discovering and loading configuration data will be performed from file.
func (pdp *KeyPrefixedDataProvider) SetFromFile(path string, dataType DataType) error {
	return pdp.delegate.SetFromFile(path, dataType)
}

// SetFromReader specifies that discovering and loading configuration data will be performed from reader.
func (pdp *KeyPrefixedDataProvider) SetFromReader(reader io.Reader, dataType DataType) error {
	return pdp.delegate.SetFromReader(reader, dataType)
}

// IsSet checks to see if the key has been set in any of the data locations.
func (pdp *KeyPrefixedDataProvider) IsSet(key string) bool {
	return pdp.delegate.IsSet(pdp.makeKey(key))
}

// Get retrieves any value given the key to use.
func (pdp *KeyPrefixedDataProvider) Get(key string) interface{} {
	return pdp.delegate.Get(pdp.makeKey(key))
}

// GetBool tries to retrieve the value associated with the key as a bool.
func (pdp *KeyPrefixedDataProvider) GetBool(key string) (bool, error) {
	return pdp.delegate.GetBool(pdp.makeKey(key))
}

// GetInt tries to retrieve the value associated with the key as an integer.
func (pdp *KeyPrefixedDataProvider) GetInt(key string) (int, error) {
	return pdp.delegate.GetInt(pdp.makeKey(key))
}

// GetString tries to retrieve the value associated with the key as a string.
func (pdp *KeyPrefixedDataProvider) GetString(key string) (string, error) {
	return pdp.delegate.GetString(pdp.makeKey(key))
}

// GetStringFromSet tries to retrieve the value associated with the key as a string from the predefined set.
func (pdp *KeyPrefixedDataProvider) GetStringFromSet(key string, set []string, ignoreCase bool) (string, error) {
	return pdp.delegate.GetStringFromSet(pdp.makeKey(key), set, ignoreCase)
}

// GetDuration tries to retrieve the value associated with the key as a duration.
func (pdp *KeyPrefixedDataProvider) GetDuration(key string) (time.Duration, error) {
	return pdp.delegate.GetDuration(pdp.makeKey(key))
}

// GetStringMapString tries to retrieve the value associated with the key as a map of strings.
func (pdp *KeyPrefixedDataProvider) GetStringMapString(key string) (map[string]string, error) {
	return pdp.delegate.GetStringMapString(pdp.makeKey(key))
}

// UnmarshalKey takes a single key and unmarshals it into a struct.
func (pdp *KeyPrefixedDataProvider) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	return pdp.delegate.UnmarshalKey(pdp.makeKey(key), rawVal, opts...)
}

// WrapKeyErr wraps error adding information about a key (with prefix) where this error occurs.
func (pdp *KeyPrefixedDataProvider) WrapKeyErr(key string, err error) error {
	return WrapKeyErr(pdp.makeKey(key), err)
}
