// Package screening rejects model output that must not reach the confirmation step.
package screening

import (
	"strings"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/ports"
)

// markdownFenceThreshold is the number of code fences that marks a response as formatted text.
const markdownFenceThreshold = 2

// Screener applies the refusal check and then the markdown check.
type Screener struct {
	refusalPrefixes []string
	sink            ports.OutputSink
}

// NewScreener uses the refusal prefixes from cfg. sink may be nil, then rejections are silent.
func NewScreener(cfg domain.Config, sink ports.OutputSink) *Screener {
	return &Screener{refusalPrefixes: cfg.GetRefusalPrefixes(), sink: sink}
}

// Screen implements ports.Screener.
func (s *Screener) Screen(response string) error {
	if err := s.CheckRefusal(response); err != nil {
		return err
	}
	return s.CheckMarkdown(response)
}

// CheckRefusal rejects responses whose lowercase form starts with a refusal prefix.
// The default list contains the single word "я", so any answer starting with it is rejected.
func (s *Screener) CheckRefusal(response string) error {
	lowered := strings.ToLower(response)
	for _, prefix := range s.refusalPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			if s.sink != nil {
				s.sink.Notice(ports.NoticeWarning, "Warning", "The model reported a problem: "+response)
			}
			return domain.ErrRefusal
		}
	}
	return nil
}

// CheckMarkdown rejects responses carrying at least two code fences.
func (s *Screener) CheckMarkdown(response string) error {
	if strings.Count(response, "```") < markdownFenceThreshold {
		return nil
	}
	if s.sink != nil {
		s.sink.Notice(ports.NoticeWarning, "Warning", "The proposed command contains markup, so it was not run directly:")
		s.sink.Markdown(response)
	}
	return domain.ErrMarkdownResponse
}

var _ ports.Screener = (*Screener)(nil)
