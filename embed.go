package site

import "embed"

// EmbeddedAssets holds the stylesheet and the playground script served
// under /public/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
