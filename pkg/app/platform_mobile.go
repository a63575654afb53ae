//go:build mobile

package app

func isMobile() bool {
	return true
}
