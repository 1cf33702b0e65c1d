// Package wallpaper serializes a schedule into a GNOME background slideshow
// (the XML read by org.gnome.desktop.background picture-uri) and manages the
// output directory.
//
// Only schedules built by schedule.Build, which are always validated, are
// accepted, so an inexact timeline can never reach disk.
package wallpaper
