// Package theme loads wallpaper themes from disk.
//
// A theme is a directory holding images and a manifest, theme.json (or
// theme.yaml / theme.yml):
//
//	{
//	  "title": "Lakeside",
//	  "credits": "Photos by ...",
//	  "description": "A lake through the day",
//	  "filename": "lakeside_*.jpg",
//	  "file_list": {
//	    "sunrise": [1, 2],
//	    "noon": [3],
//	    "day": [4, 5, 6],
//	    "sunset": [7],
//	    "night": [8]
//	  },
//	  "optional_settings": {"transition_duration": 300}
//	}
//
// Every "*" in filename is replaced by a file_list entry to form an image
// path relative to the theme directory. Entries may be numbers or strings.
// Loading fails closed with ErrInvalidManifest when title or filename is
// missing or the day list is empty.
//
// Watcher reports changes below the themes directory so the daemon can
// regenerate the schedule.
package theme
