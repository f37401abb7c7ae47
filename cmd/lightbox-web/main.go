//go:build js && wasm

// Command lightbox-web binds the lightbox controller to a generated gallery page.
// Build with GOOS=js GOARCH=wasm and serve next to wasm_exec.js.
package main

import (
	"syscall/js"

	"lightbox/internal/lightbox"
)

// domThumb is an img element carrying a data-full attribute
type domThumb struct {
	el js.Value
}

func (t domThumb) FullSource() string {
	v := t.el.Call("getAttribute", "data-full")
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (t domThumb) SameAs(other lightbox.Thumbnail) bool {
	o, ok := other.(domThumb)
	return ok && o.el.Equal(t.el)
}

// domContainer scans #containers in document order
type domContainer struct {
	root js.Value
}

func (c domContainer) Thumbnails() []lightbox.Thumbnail {
	nodes := c.root.Call("querySelectorAll", "img[data-full]")
	n := nodes.Get("length").Int()
	thumbs := make([]lightbox.Thumbnail, 0, n)
	for i := 0; i < n; i++ {
		thumbs = append(thumbs, domThumb{el: nodes.Index(i)})
	}
	return thumbs
}

// domOverlay toggles #lightbox and points #lightbox-img at the displayed resource
type domOverlay struct {
	box js.Value
	img js.Value
}

func (o domOverlay) Show() { o.box.Get("style").Set("display", "flex") }
func (o domOverlay) Hide() { o.box.Get("style").Set("display", "none") }

func (o domOverlay) Visible() bool {
	return o.box.Get("style").Get("display").String() == "flex"
}

func (o domOverlay) Display(src string) { o.img.Set("src", src) }

func main() {
	doc := js.Global().Get("document")
	root := doc.Call("getElementById", "containers")
	box := doc.Call("getElementById", "lightbox")
	img := doc.Call("getElementById", "lightbox-img")
	if root.IsNull() || box.IsNull() || img.IsNull() {
		// Not a gallery page
		return
	}

	overlay := domOverlay{box: box, img: img}
	c := lightbox.NewController(domContainer{root: root}, overlay)

	root.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
		target := args[0].Get("target")
		if target.Get("tagName").String() != "IMG" || !target.Call("hasAttribute", "data-full").Bool() {
			return nil
		}
		c.HandleClick(lightbox.ClickEvent{Target: lightbox.TargetThumbnail, Thumbnail: domThumb{el: target}})
		return nil
	}))

	box.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
		if args[0].Get("target").Equal(box) {
			c.HandleClick(lightbox.ClickEvent{Target: lightbox.TargetBackdrop})
		}
		return nil
	}))

	controls := map[string]lightbox.Target{
		".close":       lightbox.TargetClose,
		".arrow.left":  lightbox.TargetPrevArrow,
		".arrow.right": lightbox.TargetNextArrow,
	}
	for selector, target := range controls {
		el := box.Call("querySelector", selector)
		if el.IsNull() {
			continue
		}
		el.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
			args[0].Call("stopPropagation")
			c.HandleClick(lightbox.ClickEvent{Target: target})
			return nil
		}))
	}

	doc.Call("addEventListener", "keydown", js.FuncOf(func(this js.Value, args []js.Value) any {
		e := args[0]
		handled := c.HandleKey(lightbox.KeyEvent{
			Key:   e.Get("key").String(),
			Shift: e.Get("shiftKey").Bool(),
			Ctrl:  e.Get("ctrlKey").Bool(),
			Alt:   e.Get("altKey").Bool(),
		})
		if handled {
			e.Call("preventDefault")
		}
		return nil
	}))

	select {}
}
