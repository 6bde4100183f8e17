// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for factview.
//
// Configuration is loaded from a single file specified by either the
// FACTVIEW_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). When neither names a file, [Default] applies. There
// is no ~/.config discovery and no automatic file search.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${XDG_RUNTIME_DIR} and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with language, socket, identity, watch,
//     logging and search weight settings
//   - [Default] -- returns a Config with the built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other factview packages.
package config
