package layout

import "testing"

func TestHitTestClickableSpan(t *testing.T) {
	text := Plain("hello world").Attach(6, 11, Style{Underline: true, Action: "open:world"})
	res := mustBuild(t, Request{Text: text, Metrics: fixedMetrics{}, MaxWidth: 100, MaxLines: 1})

	hit := res.HitTest(text, 7.5, 5)
	if hit.Line != 0 || hit.Offset != 7 || !hit.Inside || hit.Marker {
		t.Fatalf("unexpected hit %+v", hit)
	}
	sp, ok := hit.Clickable()
	if !ok || sp.Style.Action != "open:world" {
		t.Fatalf("expected clickable span, got %+v", hit.Spans)
	}

	hit = res.HitTest(text, 2, 5)
	if _, ok := hit.Clickable(); ok || hit.Offset != 2 {
		t.Fatalf("plain region must not be clickable: %+v", hit)
	}
}

func TestHitTestOutsideLine(t *testing.T) {
	text := Plain("hello world")
	res := mustBuild(t, Request{Text: text, Metrics: fixedMetrics{}, MaxWidth: 100, MaxLines: 1})

	hit := res.HitTest(text, 50, 5)
	if hit.Inside || hit.Offset != 10 {
		t.Fatalf("x past line end should map to last cluster and be outside: %+v", hit)
	}
	hit = res.HitTest(text, -3, 200)
	if hit.Inside || hit.Line != 0 || hit.Offset != 0 {
		t.Fatalf("coordinates outside should clamp to first cluster: %+v", hit)
	}
	empty := mustBuild(t, request("", 10, 1))
	if hit := empty.HitTest(Plain(""), 0, 0); hit.Line != -1 || hit.Offset != -1 {
		t.Fatalf("empty layout must report no line: %+v", hit)
	}
}

func TestHitTestSecondLine(t *testing.T) {
	req := request("aaaa bbbb", 4, Unlimited)
	res := mustBuild(t, req)
	hit := res.HitTest(req.Text, 1.5, 12)
	if hit.Line != 1 || hit.Offset != 6 || !hit.Inside {
		t.Fatalf("unexpected hit on second line: %+v", hit)
	}
}

func TestHitTestMarker(t *testing.T) {
	req := request(sentence, 12, 1)
	req.Ellipsis = EllipsisEnd
	req.Replacement = &Replacement{Text: "…", Action: "expand"}
	res := mustBuild(t, req)

	hit := res.HitTest(req.Text, 11.5, 5)
	if !hit.Marker || hit.Offset != res.Elision.Marker.At {
		t.Fatalf("expected marker hit, got %+v", hit)
	}
	// 标记之前的文本仍按原下标命中。
	hit = res.HitTest(req.Text, 6.2, 5)
	if hit.Marker || hit.Offset != 6 {
		t.Fatalf("expected offset 6 before marker, got %+v", hit)
	}
}

func TestHitTestMiddleElisionSuffix(t *testing.T) {
	req := request("abcdefghijklmnop", 10, 1)
	req.Ellipsis = EllipsisMiddle
	res := mustBuild(t, req)
	// 后缀 "mnop" 从 x=6 开始，对应源下标 12。
	hit := res.HitTest(req.Text, 6.5, 5)
	if hit.Marker || hit.Offset != 12 {
		t.Fatalf("suffix should map back to source offsets, got %+v", hit)
	}
}
