package inkpress

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// admin.js, admin.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
