package schema

import (
	"strings"
	"sync"
)

const svgNamespace = "http://www.w3.org/2000/svg"

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default returns the builtin HTML and SVG schema. It is built once and
// shared; it must not be mutated.
func Default() *Schema {
	defaultOnce.Do(func() {
		defaultSchema = &Schema{
			elements:   builtinElements(),
			attributes: builtinAttributes(),
		}
	})
	return defaultSchema
}

var htmlElements = []string{
	"a", "abbr", "address", "area", "article", "aside", "audio",
	"b", "base", "bdi", "bdo", "blockquote", "body", "br", "button",
	"canvas", "caption", "cite", "code", "col", "colgroup",
	"data", "datalist", "dd", "del", "details", "dfn", "dialog", "div", "dl", "dt",
	"em", "embed", "fieldset", "figcaption", "figure", "footer", "form",
	"h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hgroup", "hr", "html",
	"i", "iframe", "img", "input", "ins", "kbd", "label", "legend", "li", "link",
	"main", "map", "mark", "menu", "meta", "meter", "nav", "noscript",
	"object", "ol", "optgroup", "option", "output", "p", "param", "picture", "pre", "progress",
	"q", "rp", "rt", "ruby", "s", "samp", "script", "section", "select", "slot", "small",
	"source", "span", "strong", "style", "sub", "summary", "sup",
	"table", "tbody", "td", "template", "textarea", "tfoot", "th", "thead", "time", "title",
	"tr", "track", "u", "ul", "var", "video", "wbr",
}

var svgElements = []string{
	"svg", "g", "defs", "symbol", "use", "path", "circle", "ellipse", "line", "polyline",
	"polygon", "rect", "text", "tspan", "image", "clipPath", "mask", "pattern", "marker",
	"linearGradient", "radialGradient", "stop", "foreignObject",
}

func builtinElements() map[string]string {
	m := make(map[string]string, len(htmlElements)+len(svgElements))
	for _, tag := range htmlElements {
		m[tag] = ""
	}
	for _, tag := range svgElements {
		m[tag] = svgNamespace
	}
	return m
}

// cssProperties become global attributes in the style namespace.
var cssProperties = []string{
	"width", "height", "color", "background", "background_color", "background_image",
	"display", "visibility", "opacity", "overflow", "cursor", "z_index", "position",
	"top", "left", "right", "bottom",
	"margin", "margin_top", "margin_right", "margin_bottom", "margin_left",
	"padding", "padding_top", "padding_right", "padding_bottom", "padding_left",
	"border", "border_color", "border_width", "border_radius", "box_shadow", "box_sizing",
	"font", "font_size", "font_weight", "font_family", "font_style", "line_height",
	"text_align", "text_decoration", "text_transform", "white_space", "letter_spacing",
	"flex", "flex_direction", "flex_wrap", "flex_grow", "flex_shrink", "justify_content",
	"align_items", "align_self", "gap", "grid_template_columns", "grid_template_rows",
	"min_width", "max_width", "min_height", "max_height", "transform", "transition",
}

var globalAttributes = map[string]string{
	"class":                "class",
	"id":                   "id",
	"title":                "title",
	"lang":                 "lang",
	"dir":                  "dir",
	"hidden":               "hidden",
	"tabindex":             "tabindex",
	"accesskey":            "accesskey",
	"draggable":            "draggable",
	"contenteditable":      "contenteditable",
	"spellcheck":           "spellcheck",
	"translate":            "translate",
	"role":                 "role",
	"autofocus":            "autofocus",
	"r#slot":               "slot",
	"dangerous_inner_html": "dangerous_inner_html",
}

type scoped struct {
	name string
	tags []string
}

var sizedTags = []string{
	"img", "canvas", "video", "iframe", "embed", "object", "input", "source",
	"svg", "rect", "image", "use", "pattern", "mask", "foreignObject",
}

// scopedAttributes lists attributes that only apply to some HTML tags.
// The key is the template name, name is the markup name.
var scopedAttributes = map[string]scoped{
	"r#type":      {"type", []string{"input", "button", "script", "style", "link", "source", "ol", "object", "embed", "menu"}},
	"r#for":       {"for", []string{"label", "output"}},
	"r#loop":      {"loop", []string{"audio", "video"}},
	"r#async":     {"async", []string{"script"}},
	"href":        {"href", []string{"a", "area", "base", "link"}},
	"src":         {"src", []string{"img", "script", "iframe", "audio", "video", "source", "embed", "input", "track"}},
	"alt":         {"alt", []string{"img", "area", "input"}},
	"value":       {"value", []string{"input", "button", "option", "li", "meter", "progress", "param", "data", "textarea", "select", "output"}},
	"name":        {"name", []string{"input", "button", "select", "textarea", "form", "iframe", "object", "output", "fieldset", "map", "meta", "param", "slot"}},
	"placeholder": {"placeholder", []string{"input", "textarea"}},
	"checked":     {"checked", []string{"input"}},
	"disabled":    {"disabled", []string{"button", "input", "select", "textarea", "option", "optgroup", "fieldset"}},
	"readonly":    {"readonly", []string{"input", "textarea"}},
	"required":    {"required", []string{"input", "select", "textarea"}},
	"selected":    {"selected", []string{"option"}},
	"multiple":    {"multiple", []string{"input", "select"}},
	"open":        {"open", []string{"details", "dialog"}},
	"controls":    {"controls", []string{"audio", "video"}},
	"rel":         {"rel", []string{"a", "link", "area"}},
	"target":      {"target", []string{"a", "area", "base", "form"}},
	"download":    {"download", []string{"a", "area"}},
	"action":      {"action", []string{"form"}},
	"method":      {"method", []string{"form"}},
	"colspan":     {"colspan", []string{"td", "th"}},
	"rowspan":     {"rowspan", []string{"td", "th"}},
	"content":     {"content", []string{"meta"}},
	"charset":     {"charset", []string{"meta", "script"}},
	"cols":        {"cols", []string{"textarea"}},
	"rows":        {"rows", []string{"textarea"}},
	"min":         {"min", []string{"input", "meter"}},
	"max":         {"max", []string{"input", "meter", "progress"}},
	"step":        {"step", []string{"input"}},
	"maxlength":   {"maxlength", []string{"input", "textarea"}},
	"label":       {"label", []string{"option", "optgroup", "track"}},
	"datetime":    {"datetime", []string{"time", "del", "ins"}},
	"cite":        {"cite", []string{"blockquote", "q", "del", "ins"}},
	"width":       {"width", sizedTags},
	"height":      {"height", sizedTags},
}

// svgAttributes apply to every SVG element unless listed in svgScoped.
var svgAttributes = map[string]string{
	"fill":             "fill",
	"fill_opacity":     "fill-opacity",
	"fill_rule":        "fill-rule",
	"clip_rule":        "clip-rule",
	"clip_path":        "clip-path",
	"stroke":           "stroke",
	"stroke_width":     "stroke-width",
	"stroke_linecap":   "stroke-linecap",
	"stroke_linejoin":  "stroke-linejoin",
	"stroke_dasharray": "stroke-dasharray",
	"stroke_opacity":   "stroke-opacity",
	"transform":        "transform",
}

var svgScoped = map[string]scoped{
	"view_box":              {"viewBox", []string{"svg", "symbol", "marker", "pattern"}},
	"xmlns":                 {"xmlns", []string{"svg"}},
	"preserve_aspect_ratio": {"preserveAspectRatio", []string{"svg", "symbol", "image", "pattern", "marker"}},
	"d":                     {"d", []string{"path"}},
	"cx":                    {"cx", []string{"circle", "ellipse", "radialGradient"}},
	"cy":                    {"cy", []string{"circle", "ellipse", "radialGradient"}},
	"r":                     {"r", []string{"circle", "radialGradient"}},
	"rx":                    {"rx", []string{"ellipse", "rect"}},
	"ry":                    {"ry", []string{"ellipse", "rect"}},
	"x":                     {"x", []string{"rect", "text", "tspan", "image", "use", "svg", "pattern", "mask", "foreignObject"}},
	"y":                     {"y", []string{"rect", "text", "tspan", "image", "use", "svg", "pattern", "mask", "foreignObject"}},
	"x1":                    {"x1", []string{"line", "linearGradient"}},
	"y1":                    {"y1", []string{"line", "linearGradient"}},
	"x2":                    {"x2", []string{"line", "linearGradient"}},
	"y2":                    {"y2", []string{"line", "linearGradient"}},
	"points":                {"points", []string{"polyline", "polygon"}},
	"offset":                {"offset", []string{"stop"}},
	"stop_color":            {"stop-color", []string{"stop"}},
	"text_anchor":           {"text-anchor", []string{"text", "tspan"}},
}

func builtinAttributes() map[string][]Entry {
	attrs := make(map[string][]Entry)
	add := func(key string, e Entry) {
		attrs[key] = append(attrs[key], e)
	}

	for key, name := range globalAttributes {
		add(key, Entry{Scope: Global(), Name: name})
	}
	for _, prop := range cssProperties {
		e := Entry{Scope: Global(), Name: prop, Namespace: "style"}
		if kebab := strings.ReplaceAll(prop, "_", "-"); kebab != prop {
			e.RenameTo = kebab
		}
		add(prop, e)
	}
	for key, s := range scopedAttributes {
		for _, tag := range s.tags {
			add(key, Entry{Scope: Specific(tag), Name: s.name})
		}
	}
	for key, name := range svgAttributes {
		for _, tag := range svgElements {
			e := Entry{Scope: Specific(tag), Name: key}
			if name != key {
				e.RenameTo = name
			}
			add(key, e)
		}
	}
	for key, s := range svgScoped {
		for _, tag := range s.tags {
			e := Entry{Scope: Specific(tag), Name: key}
			if s.name != key {
				e.RenameTo = s.name
			}
			add(key, e)
		}
	}
	for _, tag := range []string{"use", "image", "pattern", "linearGradient", "radialGradient"} {
		add("xlink_href", Entry{Scope: Specific(tag), Name: "href", Namespace: "xlink"})
	}
	return attrs
}
