package common

// Virtual key codes used by the viewer controls.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyI   = 73  // I key (ASCII), toggles image based lighting
	KeyR   = 82  // R key (ASCII), reloads the current asset
	KeyP   = 80  // P key (ASCII), pauses the spin
	KeyEsc = 256 // Escape key (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
)

// LightCountForKey maps the number keys 0-3 to a light count. ok is false for any other key.
func LightCountForKey(key int) (count int, ok bool) {
	if key >= Key0 && key <= Key3 {
		return key - Key0, true
	}
	return 0, false
}
