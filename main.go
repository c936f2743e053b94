/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package main

import "github.com/tschaefer/tether/cmd"

func main() {
	cmd.Execute()
}
