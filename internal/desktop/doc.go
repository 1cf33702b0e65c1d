// Package desktop applies appearance and wallpaper changes to a GNOME session
// through gsettings, and lists the themes installed on the host.
//
// All commands go through a Runner so tests and headless setups can replace
// the gsettings binary.
package desktop
