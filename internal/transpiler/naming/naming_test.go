package naming_test

import (
	"testing"

	"martianoff/tscs/internal/transpiler/naming"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"fooBar", []string{"foo", "Bar"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"in-progress", []string{"in", "progress"}},
		{"HTTP_ERROR", []string{"HTTP", "ERROR"}},
		{"  spaced out  ", []string{"spaced", "out"}},
		{"code1", []string{"code1"}},
		{"---", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, naming.SplitWords(tt.input))
		})
	}
}

func TestPascalCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"maxSpeed", "MaxSpeed"},
		{"max_speed", "MaxSpeed"},
		{"userID", "UserID"},
		{"_ready", "_Ready"},
		{"_physics_process", "_PhysicsProcess"},
		{"Name", "Name"},
		{"x", "X"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, naming.PascalCase(tt.input))
		})
	}
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "maxSpeed", naming.CamelCase("MaxSpeed"))
	assert.Equal(t, "maxSpeed", naming.CamelCase("max-speed"))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Circle", naming.TypeName("circle"))
	assert.Equal(t, "InProgress", naming.TypeName("in-progress"))
	assert.Equal(t, "HttpError", naming.TypeName("HTTP_ERROR"))
	assert.Equal(t, "MyValue", naming.TypeName("myValue"))
	assert.Equal(t, "", naming.TypeName("!!"))
}

func TestEscapeKeyword(t *testing.T) {
	assert.Equal(t, "@event", naming.EscapeKeyword("event"))
	assert.Equal(t, "@base", naming.EscapeKeyword("base"))
	assert.Equal(t, "speed", naming.EscapeKeyword("speed"))
	assert.True(t, naming.IsKeyword("string"))
	assert.False(t, naming.IsKeyword("String"))
}

func TestNamespaceFromPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"player.ts", ""},
		{"models/shape.ts", "Models"},
		{"game/ui/hud-panel.ts", "Game.Ui"},
		{"my-stuff/x.ts", "MyStuff"},
		{"2d/sprite.ts", "_2d"},
		{"./scenes/main.ts", "Scenes"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, naming.NamespaceFromPath(tt.input))
		})
	}
}

func TestJoinNamespace(t *testing.T) {
	assert.Equal(t, "Game.Models", naming.JoinNamespace("Game", "Models"))
	assert.Equal(t, "Game", naming.JoinNamespace("Game", ""))
	assert.Equal(t, "Models", naming.JoinNamespace("", "Models"))
	assert.Equal(t, "", naming.JoinNamespace("", ""))
}

func TestClassNameFromFile(t *testing.T) {
	assert.Equal(t, "PlayerUtils", naming.ClassNameFromFile("src/player-utils.ts"))
	assert.Equal(t, "Main", naming.ClassNameFromFile("main.tsx"))
	assert.Equal(t, "_3d", naming.ClassNameFromFile("3d.ts"))
}

func TestElementClassName(t *testing.T) {
	assert.Equal(t, "Item", naming.ElementClassName("items", true))
	assert.Equal(t, "Enemy", naming.ElementClassName("enemies", true))
	assert.Equal(t, "Settings", naming.ElementClassName("settings", false))
}
