// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the atlas config directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration with environment overrides
//   - SessionStore: TOML-based backend session persistence
//   - Watcher: fsnotify-based config reload on external edits
package file
