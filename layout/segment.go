package layout

import (
	"sort"
	"unicode"

	"github.com/go-text/typesetting/segmenter"
)

// segments 保存一段文本的断行机会（UAX #14）与字素边界（UAX #29）。
type segments struct {
	breaks   []breakOpportunity
	clusters []int // 升序，含 0 与 len(text)
}

type breakOpportunity struct {
	end       int // 可在 end 之前断行（exclusive）
	mandatory bool
}

func segment(runes []rune) segments {
	var s segments
	if len(runes) == 0 {
		return s
	}
	var seg segmenter.Segmenter
	seg.Init(runes)

	lines := seg.LineIterator()
	for lines.Next() {
		ln := lines.Line()
		end := ln.Offset + len(ln.Text)
		s.breaks = append(s.breaks, breakOpportunity{end: end, mandatory: isHardBreak(runes[end-1])})
	}
	if n := len(s.breaks); n == 0 || s.breaks[n-1].end != len(runes) {
		s.breaks = append(s.breaks, breakOpportunity{end: len(runes), mandatory: isHardBreak(runes[len(runes)-1])})
	}

	s.clusters = append(s.clusters, 0)
	graphemes := seg.GraphemeIterator()
	for graphemes.Next() {
		g := graphemes.Grapheme()
		s.clusters = append(s.clusters, g.Offset+len(g.Text))
	}
	if s.clusters[len(s.clusters)-1] != len(runes) {
		s.clusters = append(s.clusters, len(runes))
	}
	return s
}

// boundaries 返回 [start, end] 内的字素边界，首尾一定包含 start 与 end。
func (s segments) boundaries(start, end int) []int {
	out := []int{start}
	i := sort.SearchInts(s.clusters, start+1)
	for ; i < len(s.clusters) && s.clusters[i] < end; i++ {
		out = append(out, s.clusters[i])
	}
	if end > start {
		out = append(out, end)
	}
	return out
}

// nextCluster returns the first cluster boundary after start, capped at limit.
func (s segments) nextCluster(start, limit int) int {
	i := sort.SearchInts(s.clusters, start+1)
	if i >= len(s.clusters) || s.clusters[i] > limit {
		return limit
	}
	return s.clusters[i]
}

// paragraphEnd 返回 start 所在段落的结束位置（含换行符）。
func (s segments) paragraphEnd(start, n int) int {
	for _, brk := range s.breaks {
		if brk.end > start && brk.mandatory {
			return brk.end
		}
	}
	return n
}

func isHardBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// trimHardBreak strips the line terminator owned by a line.
func trimHardBreak(runes []rune, start, end int) int {
	for end > start && isHardBreak(runes[end-1]) {
		end--
	}
	return end
}

// trimSpace strips trailing whitespace, which hangs past the line width.
func trimSpace(runes []rune, start, end int) int {
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	return end
}
