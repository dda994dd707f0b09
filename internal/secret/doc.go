// Package secret resolves the Scout API key from an external secret manager.
//
// Backends are consulted in a fixed order (1Password, Bitwarden, KeePassXC) and the
// first one that is configured and returns a non-empty value wins. Plaintext keys from
// environment variables, flags or files are never accepted. The key is held in a
// memguard enclave for the life of the process and is never logged.
package secret
