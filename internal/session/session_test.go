package session

import (
	"strings"
	"testing"

	"shopseo/internal/domain/seo"
)

func TestSelectionLifecycle(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Select("a")
	s.Select("b")
	s.Select("a") // idempotent
	if got := s.SelectionCount(); got != 2 {
		t.Fatalf("count = %d", got)
	}
	s.Deselect("a")
	if s.Selected("a") || !s.Selected("b") {
		t.Fatal("deselect removed the wrong key")
	}
	s.SelectAll([]seo.UnitKey{"c", "d"})
	if got := s.SelectionCount(); got != 3 {
		t.Fatalf("count after select all = %d", got)
	}
	s.ClearSelection()
	if got := s.SelectionCount(); got != 0 {
		t.Fatalf("count after clear = %d", got)
	}
}

func TestSetOverrideClampsValues(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.SetOverride("u", seo.GeneratedText{
		AltText:         strings.Repeat("a", 300),
		MetaTitle:       strings.Repeat("t", 300),
		MetaDescription: strings.Repeat("d", 300),
	})
	text, ok := s.Override("u")
	if !ok {
		t.Fatal("override not stored")
	}
	if len([]rune(text.AltText)) != seo.MaxAltText {
		t.Fatalf("alt length = %d", len([]rune(text.AltText)))
	}
	if len([]rune(text.MetaTitle)) != seo.MaxMetaTitle {
		t.Fatalf("title length = %d", len([]rune(text.MetaTitle)))
	}
	if len([]rune(text.MetaDescription)) != seo.MaxMetaDescription {
		t.Fatalf("description length = %d", len([]rune(text.MetaDescription)))
	}
}

func TestPageNavigationResetsEdits(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Select("a")
	s.SetOverride("a", seo.GeneratedText{AltText: "alt"})

	s.Advance("cursor-1")
	if s.Page() != 2 || s.Cursor() != "cursor-1" {
		t.Fatalf("page = %d, cursor = %q", s.Page(), s.Cursor())
	}
	if s.SelectionCount() != 0 {
		t.Fatal("selection must reset on page change")
	}
	if _, ok := s.Override("a"); ok {
		t.Fatal("overrides must reset on page change")
	}

	s.Advance("cursor-2")
	s.Back()
	if s.Page() != 2 || s.Cursor() != "cursor-1" {
		t.Fatalf("after back: page = %d, cursor = %q", s.Page(), s.Cursor())
	}
	s.Back()
	s.Back() // already on the first page
	if s.Page() != 1 || s.Cursor() != "" {
		t.Fatalf("at start: page = %d, cursor = %q", s.Page(), s.Cursor())
	}
}

func TestBeginOpIsExclusive(t *testing.T) {
	t.Parallel()

	s := NewState()
	if err := s.BeginOp(); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if err := s.BeginOp(); err != ErrOpInFlight {
		t.Fatalf("second begin = %v, want ErrOpInFlight", err)
	}
	s.EndOp()
	if err := s.BeginOp(); err != nil {
		t.Fatalf("begin after end: %v", err)
	}
}

func TestApplyOverridesToUnits(t *testing.T) {
	t.Parallel()

	s := NewState()
	img := seo.ImageUnit{ProductID: "p", ImageID: "i", Title: "Mug", AltText: "old"}
	if got := s.ApplyToImage(img); got.EffectiveAltText() != "old" {
		t.Fatalf("without override: %q", got.EffectiveAltText())
	}

	s.SetOverride(img.Key(), seo.GeneratedText{AltText: "hand-written alt"})
	if got := s.ApplyToImage(img); got.EffectiveAltText() != "hand-written alt" {
		t.Fatalf("with override: %q", got.EffectiveAltText())
	}

	prod := seo.ProductUnit{ProductID: "p2", Title: "Mug", MetaTitle: "Old Title"}
	s.SetOverride(prod.Key(), seo.GeneratedText{MetaTitle: "New Title", MetaDescription: "New description"})
	got := s.ApplyToProduct(prod)
	if got.EffectiveMetaTitle() != "New Title" || got.EffectiveMetaDescription() != "New description" {
		t.Fatalf("product override: %q / %q", got.EffectiveMetaTitle(), got.EffectiveMetaDescription())
	}
}

func TestStoreIsPerShop(t *testing.T) {
	t.Parallel()

	st := NewStore()
	a := st.For("a.myshopify.com", "seo")
	b := st.For("b.myshopify.com", "seo")
	if a == b {
		t.Fatal("shops must not share state")
	}
	a.Select("x")
	if b.SelectionCount() != 0 {
		t.Fatal("selection leaked between shops")
	}
	if st.For("a.myshopify.com", "seo") != a {
		t.Fatal("store must return the same state for a shop and area")
	}
	if st.For("a.myshopify.com", "alttext") == a {
		t.Fatal("areas must not share state")
	}
}
