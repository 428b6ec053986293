package osutil

import (
	"os"
)

var stopSignals = []os.Signal{os.Interrupt}
