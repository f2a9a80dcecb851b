// Package md5name derives raw-cache file names from page basenames.
package md5name

import (
	"crypto/md5"
	"encoding/hex"
)

// Sum returns the hex MD5 digest of name.
func Sum(name string) string {
	sum := md5.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// File returns the raw-cache file name for a page basename.
func File(name string) string {
	return Sum(name) + ".html"
}
