package metadata

import "testing"

func TestHandleID(t *testing.T) {
	for _, x := range [...]struct {
		index uint32
		gen   uint16
	}{
		{0, 1},
		{41, 7},
		{HandleMaxIndex - 1, HandleMaxGeneration},
	} {
		id := MakeHandleID(x.index, x.gen)
		if id == 0 {
			t.Fatalf("MakeHandleID(%d, %d): produced the null id", x.index, x.gen)
		}
		index, gen, ok := SplitHandleID(id)
		if !ok || index != x.index || gen != x.gen {
			t.Fatalf("SplitHandleID(%#x):\nhave %d, %d, %t\nwant %d, %d, true", id, index, gen, ok, x.index, x.gen)
		}
	}
	if _, _, ok := SplitHandleID(0); ok {
		t.Fatal("SplitHandleID(0): null id reported as valid")
	}
}

func TestHandleKinds(t *testing.T) {
	if !(Texture2D{}).IsNull() || (Pipeline{ID: 3}).IsNull() {
		t.Fatal("IsNull: wrong result for null/non-null handles")
	}
	if have := HandleID(RenderTarget{ID: 9}); have != 9 {
		t.Fatalf("HandleID:\nhave %d\nwant 9", have)
	}
	if have := KindOf(UniformBuffer{}); have != ResourceKindUniformBuffer {
		t.Fatalf("KindOf:\nhave %v\nwant %v", have, ResourceKindUniformBuffer)
	}
}

func TestLayoutFormat(t *testing.T) {
	for _, x := range [...]struct {
		f       LayoutFormat
		size    int
		columns int
	}{
		{LayoutFormatVec2, 8, 1},
		{LayoutFormatMat2, 16, 2},
		{LayoutFormatMat4, 64, 4},
		{LayoutFormatVec4I16Norm, 8, 1},
		{LayoutFormatVec4U8Norm, 4, 1},
		{LayoutFormatNull, 0, 0},
	} {
		if have := x.f.Size(); have != x.size {
			t.Fatalf("LayoutFormat(%d).Size:\nhave %d\nwant %d", x.f, have, x.size)
		}
		if have := x.f.Columns(); have != x.columns {
			t.Fatalf("LayoutFormat(%d).Columns:\nhave %d\nwant %d", x.f, have, x.columns)
		}
	}
	col, stride := LayoutFormatMat2.Column()
	if col != LayoutFormatVec2 || stride != 8 {
		t.Fatalf("LayoutFormatMat2.Column:\nhave %d, %d\nwant %d, 8", col, stride, LayoutFormatVec2)
	}
}

func TestPipelineAttributes(t *testing.T) {
	var d PipelineDesc
	d.InputLayout[0] = LayoutDesc{Format: LayoutFormatVec2}
	d.InputLayout[1] = LayoutDesc{Format: LayoutFormatVec4U8Norm, Offset: 8}
	if have := len(d.Attributes()); have != 2 {
		t.Fatalf("PipelineDesc.Attributes:\nhave %d entries\nwant 2", have)
	}
}

func TestCapabilitiesFormats(t *testing.T) {
	caps := Capabilities{SupportedTextureFormats: FormatSet(TexFormatRGBA8, TexFormatD24S8)}
	if !caps.SupportsFormat(TexFormatRGBA8) || !caps.SupportsFormat(TexFormatD24S8) {
		t.Fatal("SupportsFormat: listed format reported unsupported")
	}
	if caps.SupportsFormat(TexFormatA8) || caps.SupportsFormat(TexFormatNull) || caps.SupportsFormat(TexFormatCount) {
		t.Fatal("SupportsFormat: unlisted format reported supported")
	}
}
