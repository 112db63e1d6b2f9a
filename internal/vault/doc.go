// Package vault stores API credentials in a fernet-encrypted file so they
// never sit in the config in plain text.
package vault
