package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back-pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	for _, mm := range samples {
		pt := mm * MmToPt
		back := pt * PtToMm
		if diff := math.Abs(back-mm); diff > 1e-9 {
			t.Fatalf("mm→pt→mm 往返误差过大: in=%gmm pt=%g back=%g diff=%g", mm, pt, back, diff)
		}
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性（到 mm/pt）。
func TestLengthToConversions(t *testing.T) {
	// 1 in = 25.4 mm
	in := Length{Value: 1, Unit: UnitIN}
	if got := in.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
	// 2.54 cm = 25.4 mm
	cm := Length{Value: 2.54, Unit: UnitCM}
	if got := cm.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	// 12 pt → mm
	pt := Length{Value: 12, Unit: UnitPT}
	if got := pt.ToMM(); math.Abs(got-12*PtToMm) > 1e-9 {
		t.Fatalf("12pt 转 mm 期望 %g，实际 %g", 12*PtToMm, got)
	}
	// 10 mm → pt
	mm := Length{Value: 10, Unit: UnitMM}
	if got := mm.ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 转 pt 期望 %g，实际 %g", 10*MmToPt, got)
	}
}

// TestParseLength 覆盖带单位与不带单位的长度字符串。
func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"12pt":   {Value: 12, Unit: UnitPT},
		" 40mm ": {Value: 40, Unit: UnitMM},
		"2.5CM":  {Value: 2.5, Unit: UnitCM},
		"1in":    {Value: 1, Unit: UnitIN},
		"96px":   {Value: 96, Unit: UnitPX},
		"80":     {Value: 80, Unit: UnitNone},
		"":       {},
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", in, err)
		}
		if got != want {
			t.Fatalf("解析 %q 期望 %+v，实际 %+v", in, want, got)
		}
	}
	if _, err := ParseLength("abcpt"); err == nil {
		t.Fatalf("非法数值应返回错误")
	}
	// 96px = 1in
	if got := (Length{Value: 96, Unit: UnitPX}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("96px 转 mm 期望 25.4，实际 %g", got)
	}
}

// TestLengthText 验证 Length 可以作为文本标量往返。
func TestLengthText(t *testing.T) {
	var l Length
	if err := l.UnmarshalText([]byte("14.5pt")); err != nil {
		t.Fatalf("UnmarshalText 失败: %v", err)
	}
	b, _ := l.MarshalText()
	if string(b) != "14.5pt" {
		t.Fatalf("MarshalText 期望 14.5pt，实际 %s", b)
	}
	if err := l.UnmarshalText([]byte("wide")); err == nil {
		t.Fatalf("非法长度应返回错误")
	}
}
