//go:build !unix

package host

import "errors"

func uname() (unameInfo, error) {
	return unameInfo{}, errors.New("uname unavailable on this platform")
}
