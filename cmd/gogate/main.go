// Command gogate serves the exercise front end behind the navigation guard.
package main

import "github.com/MrEthical07/goGate/cmd/gogate/cmd"

func main() {
	cmd.Execute()
}
