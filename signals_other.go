//go:build !unix

package debugbar

import "os"

func defaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
