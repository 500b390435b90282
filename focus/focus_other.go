//go:build !darwin

package focus

import "os"

func frontmostAppPID() int { return -1 }
func activateApp(int) bool { return false }
func ownPID() int          { return os.Getpid() }
