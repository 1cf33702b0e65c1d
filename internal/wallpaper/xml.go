package wallpaper

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
)

// The renderer only uses hour and minute of the start time; the date is a
// fixed anchor in the past so the slideshow is already running.
const (
	anchorYear  = 2020
	anchorMonth = 1
	anchorDay   = 1
)

// Header is written as XML comments above the document.
type Header struct {
	Generator string
	Version   string
	URL       string
}

type startTime struct {
	Year   int `xml:"year"`
	Month  int `xml:"month"`
	Day    int `xml:"day"`
	Hour   int `xml:"hour"`
	Minute int `xml:"minute"`
	Second int `xml:"second"`
}

type static struct {
	File     string `xml:"file"`
	Duration int    `xml:"duration"`
}

type transition struct {
	Duration int    `xml:"duration"`
	From     string `xml:"from"`
	To       string `xml:"to"`
}

// background marshals as <background> with a starttime followed by
// alternating static and transition elements.
type background struct {
	start  startTime
	slides []schedule.Slide
}

func (b background) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "background"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeElement(b.start, xml.StartElement{Name: xml.Name{Local: "starttime"}}); err != nil {
		return err
	}

	overlay := xml.StartElement{
		Name: xml.Name{Local: "transition"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "type"}, Value: "overlay"}},
	}
	for _, sl := range b.slides {
		if err := e.EncodeElement(static{File: sl.File, Duration: sl.Static},
			xml.StartElement{Name: xml.Name{Local: "static"}}); err != nil {
			return err
		}
		if err := e.EncodeElement(transition{Duration: sl.Transition, From: sl.File, To: sl.Next}, overlay); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// Render writes the slideshow XML for s to w.
func Render(w io.Writer, s *schedule.Schedule, h Header) error {
	hour, minute := s.StartTime()
	doc := background{
		start: startTime{
			Year: anchorYear, Month: anchorMonth, Day: anchorDay,
			Hour: hour, Minute: minute,
		},
		slides: s.Slides(),
	}

	if h.Generator != "" {
		if _, err := fmt.Fprintf(w, "<!-- Generated by %s %s -->\n", h.Generator, h.Version); err != nil {
			return err
		}
	}
	if h.URL != "" {
		if _, err := fmt.Fprintf(w, "<!-- %s -->\n", h.URL); err != nil {
			return err
		}
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "   ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding background xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// FileName returns "<name>-<unix>.xml".
func FileName(name string, unix int64) string {
	return name + "-" + strconv.FormatInt(unix, 10) + ".xml"
}
