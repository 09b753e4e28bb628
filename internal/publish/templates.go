package publish

import (
	"bytes"
	"fmt"
	"moneyprint/internal/structures"
	"text/template"
)

// contentData is what content templates can reference.
type contentData struct {
	Topic    string
	Nickname string
	Language string
	Date     string
	Link     string
}

type Templates struct {
	post             *template.Template
	videoTitle       *template.Template
	videoDescription *template.Template
	pitch            *template.Template
}

func NewTemplates(conf *structures.Config) (*Templates, error) {
	parse := func(name, text string) (*template.Template, error) {
		tpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("invalid content.%s: %w", name, err)
		}
		return tpl, nil
	}

	var t Templates
	var err error
	if t.post, err = parse("postTemplate", conf.Content.PostTemplate); err != nil {
		return nil, err
	}
	if t.videoTitle, err = parse("videoTitleTemplate", conf.Content.VideoTitleTemplate); err != nil {
		return nil, err
	}
	if t.videoDescription, err = parse("videoDescriptionTemplate", conf.Content.VideoDescriptionTemplate); err != nil {
		return nil, err
	}
	if t.pitch, err = parse("pitchTemplate", conf.Content.PitchTemplate); err != nil {
		return nil, err
	}
	return &t, nil
}

func render(tpl *template.Template, data contentData) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}
