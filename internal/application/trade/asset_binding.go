package trade

import (
	"fmt"

	appdesign "github.com/storefront/backend/internal/application/design"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
)

// elementRef addresses one element of a parsed submission
type elementRef struct {
	item, view, element int
}

// AssetBinding pairs every upload-origin image element with the file carrying its pixels
type AssetBinding struct {
	refs   []elementRef
	assets []appdesign.Asset
	byRef  map[elementRef]int
}

// Len returns the number of bound files
func (b *AssetBinding) Len() int {
	return len(b.refs)
}

// BindAssets matches uploaded files to upload elements before anything is written.
//
// When any upload element carries an asset token, every upload element must, and
// tokens must match the token files one to one. Otherwise the positional files are
// paired with upload elements in document order and their counts must be equal.
func BindAssets(items []design.Submission, tokenAssets map[string]appdesign.Asset, positional []appdesign.Asset) (*AssetBinding, error) {
	var refs []elementRef
	var tokens []string
	tokened := 0
	for i, item := range items {
		for vi, view := range item.Views {
			for ei, el := range view.Elements {
				if !el.IsUploadImage() {
					continue
				}
				refs = append(refs, elementRef{i, vi, ei})
				tokens = append(tokens, el.AssetToken)
				if el.AssetToken != "" {
					tokened++
				}
			}
		}
	}

	b := &AssetBinding{refs: refs, byRef: make(map[elementRef]int, len(refs))}
	for i, r := range refs {
		b.byRef[r] = i
	}

	if tokened > 0 || len(tokenAssets) > 0 {
		if len(positional) > 0 {
			return nil, shared.NewAssetBindingError("Cannot mix tokened and positional design images")
		}
		if tokened != len(refs) {
			return nil, shared.NewAssetBindingError(
				fmt.Sprintf("%d of %d uploaded images carry an asset token", tokened, len(refs)))
		}
		used := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if used[tok] {
				return nil, shared.NewAssetBindingError("Asset token used by more than one element: " + tok)
			}
			used[tok] = true
			a, ok := tokenAssets[tok]
			if !ok {
				return nil, shared.NewAssetBindingError("No file uploaded for asset token " + tok)
			}
			b.assets = append(b.assets, a)
		}
		if len(tokenAssets) != len(tokens) {
			return nil, shared.NewAssetBindingError(
				fmt.Sprintf("%d asset files uploaded for %d image elements", len(tokenAssets), len(tokens)))
		}
		return b, nil
	}

	if len(positional) != len(refs) {
		return nil, shared.NewAssetBindingError(
			fmt.Sprintf("%d design images uploaded for %d image elements", len(positional), len(refs)))
	}
	b.assets = append(b.assets, positional...)
	return b, nil
}

// asset returns the file bound to the element, if it is an upload element
func (b *AssetBinding) asset(r elementRef) (int, bool) {
	i, ok := b.byRef[r]
	return i, ok
}
