// Command tscs transpiles TypeScript sources into C# for Godot .NET projects.
package main

import "martianoff/tscs/cmd/tscs/commands"

func main() {
	commands.Execute()
}
