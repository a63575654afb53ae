//go:build !timelinedebug

package model

const debugBuild = false
