// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package format

import "github.com/aleutian-labs/nme/arena"

// styleSet builds the Styles table from the six markable inline styles.
// Verbatim, Link, and Image have no entries of their own: Verbatim
// borrows Monospace's pair when the option asks for it, and links and
// images are described by the Link/Image fields instead.
func styleSet(bold, italic, underline, sup, sub, mono StyleFragments) [arena.MaxStyleDepth]StyleFragments {
	var s [arena.MaxStyleDepth]StyleFragments
	s[arena.StyleBold] = bold
	s[arena.StyleItalic] = italic
	s[arena.StyleUnderline] = underline
	s[arena.StyleSuperscript] = sup
	s[arena.StyleSubscript] = sub
	s[arena.StyleMonospace] = mono
	return s
}

func pair(begin, end string) StyleFragments { return StyleFragments{Begin: begin, End: end} }

// Text renders plain text with three-space indentation per list level and
// soft wordwrap at column 70.
var Text = &Descriptor{
	Name:            "text",
	OneSpace:        " ",
	IndentPerLevel:  "   ",
	DefaultFontSize: 10,
	CtrlChar:        '%',
	MaxHeadingLevel: 4,

	BeginHeading: "%%{4-l} %%%%{i>0}%{i}. %%",
	EndHeading:   "\n\n",
	BeginParagraph: "",
	EndParagraph:   "\n\n",
	LineBreak:      "\n",

	BeginPre: "", EndPre: "\n",
	BeginPreLine: "", EndPreLine: "\n",

	BeginUL: "", EndUL: "%%{l=1}\n%%",
	BeginULItem: "%%{3*l-2} %%- ", EndULItem: "\n",
	BeginOL: "", EndOL: "%%{l=1}\n%%",
	BeginOLItem: "%%{3*l-3} %%%{i}. ", EndOLItem: "\n",
	BeginDL: "", EndDL: "%%{l=1}\n%%",
	BeginDT: "%%{3*l-3} %%", EndDT: "\n",
	BeginDD: "%%{3*l-1} %%", EndDD: "\n",
	BeginIndent: "", EndIndent: "%%{l=1}\n%%",
	BeginIndentedPar: "%%{3*l} %%", EndIndentedPar: "\n",

	BeginTable: "", EndTable: "\n",
	BeginRow: "", EndRow: "\n",
	BeginHeaderCell: "", EndHeaderCell: "\t",
	BeginCell: "", EndCell: "\t",

	HorizontalRule: "%%{10}-%%\n\n",

	Styles: styleSet(pair("", ""), pair("", ""), pair("", ""), pair("", ""), pair("", ""), pair("", "")),

	Link:  LinkFragments{URLFirst: true},
	Image: LinkFragments{URLFirst: true},

	WordwrapColumn: 70,
}

// TextCompact is Text without blank separator lines, for one-line-per-
// construct output.
var TextCompact = &Descriptor{
	Name:            "text/compact",
	OneSpace:        " ",
	IndentPerLevel:  "   ",
	DefaultFontSize: 10,
	CtrlChar:        '%',
	MaxHeadingLevel: 4,

	BeginHeading: "%%{p>0}\n%%%%{4-l} %%%%{i>0}%{i}. %%",
	EndHeading:   "\n",
	BeginParagraph: "",
	EndParagraph:   "\n",
	LineBreak:      "\n",

	BeginPre: "", EndPre: "",
	BeginPreLine: "", EndPreLine: "\n",

	BeginUL: "", EndUL: "%%{l=1}%%",
	BeginULItem: "%%{3*l-2} %%- ", EndULItem: "\n",
	BeginOL: "", EndOL: "%%{l=1}%%",
	BeginOLItem: "%%{3*l-3} %%%{i}. ", EndOLItem: "\n",
	BeginDL: "", EndDL: "%%{l=1}%%",
	BeginDT: "%%{3*l-3} %%", EndDT: "\n",
	BeginDD: "%%{3*l-1} %%", EndDD: "\n",
	BeginIndent: "", EndIndent: "%%{l=1}%%",
	BeginIndentedPar: "%%{3*l} %%", EndIndentedPar: "\n",

	BeginTable: "", EndTable: "",
	BeginRow: "", EndRow: "\n",
	BeginHeaderCell: "", EndHeaderCell: "\t",
	BeginCell: "", EndCell: "\t",

	HorizontalRule: "%%{10}-%%\n",

	Styles: styleSet(pair("", ""), pair("", ""), pair("", ""), pair("", ""), pair("", ""), pair("", "")),

	Link:  LinkFragments{URLFirst: true},
	Image: LinkFragments{URLFirst: true},

	WordwrapColumn: 70,
}

// Null swallows everything, for syntax checking and timing runs.
var Null = &Descriptor{
	Name:            "null",
	DefaultFontSize: 10,
	CtrlChar:        '%',
	MaxHeadingLevel: 4,

	Link:  LinkFragments{URLFirst: true},
	Image: LinkFragments{URLFirst: true},

	EncodeChar:    EncodeCharNull,
	EncodePreChar: EncodeCharNull,
	EncodeURL:     EncodeURLNull,
}

// NME reproduces the source markup itself, normalized: whole-line list
// markers, escaped plain-text characters that would read back as markup,
// and wordwrap that never creates a spurious line-start marker. List
// items carry their separating newline in the begin fragment rather than
// the end fragment, so a nested list can sit inside its parent item
// without terminating the parent's line early.
var NME = &Descriptor{
	Name:            "nme",
	OneSpace:        " ",
	IndentPerLevel:  "",
	DefaultFontSize: 10,
	CtrlChar:        '%',
	MaxHeadingLevel: 6,

	BeginHeading: "%%{l}=%%",
	EndHeading:   "%%{l}=%%\n",
	BeginParagraph: "",
	EndParagraph:   "\n\n",
	LineBreak:      `\\`,

	BeginPre: "{{{\n", EndPre: "}}}\n\n",
	BeginPreLine: "", EndPreLine: "\n",

	BeginUL: "", EndUL: "%%{l=1}\n\n%%",
	BeginULItem: "\n%L ", EndULItem: "",
	BeginOL: "", EndOL: "%%{l=1}\n\n%%",
	BeginOLItem: "\n%L ", EndOLItem: "",
	BeginDL: "", EndDL: "%%{l=1}\n\n%%",
	BeginDT: "\n%L ", EndDT: "",
	BeginDD: "\n%L ", EndDD: "",
	BeginIndent: "", EndIndent: "%%{l=1}\n\n%%",
	BeginIndentedPar: "\n%%{l}:%% ", EndIndentedPar: "",

	BeginTable: "", EndTable: "\n",
	BeginRow: "", EndRow: "\n",
	BeginHeaderCell: "|=", EndHeaderCell: "",
	BeginCell: "|", EndCell: "",

	HorizontalRule: "----\n\n",

	Styles: styleSet(
		pair("**", "**"),
		pair("//", "//"),
		pair("__", "__"),
		pair("^^", "^^"),
		pair(",,", ",,"),
		pair("##", "##"),
	),

	Link:  LinkFragments{Prefix: "[[", Suffix: "]]", Separator: "|", URLFirst: true},
	Image: LinkFragments{Prefix: "{{", Suffix: "}}", Separator: "|", URLFirst: true},

	EncodeChar: EncodeCharNME,

	WordwrapColumn: 70,
	Wordwrap:       WordwrapNME,
}

// HTML renders a self-contained HTML document body.
var HTML = &Descriptor{
	Name:            "html",
	OneSpace:        " ",
	IndentPerLevel:  "  ",
	DefaultFontSize: 0,
	CtrlChar:        '%',
	MaxHeadingLevel: 4,

	Preamble:  "<html><body>\n",
	Postamble: "</body></html>\n",

	BeginHeading: "<h%{l}%%{s>0} style=\"font-size:%{l=1&3*s|l=2&2*s|l=3&3*s/2|5*s/4}pt\"%%>" +
		"%%{x}<a name=\"h%{o}\">%%" +
		"%%{i>0}%{i}. %%",
	EndHeading:     "%%{x}</a>%%</h%{l}>\n",
	BeginParagraph: "<p%%{s>0} style=\"font-size:%{s}pt\"%%>",
	EndParagraph:   "</p>\n",
	LineBreak:      "<br />",

	BeginPre: "<pre%%{s>0} style=\"font-size:%{s}pt\"%%>\n", EndPre: "</pre>\n",
	BeginPreLine: "", EndPreLine: "\n",

	BeginUL: "<ul>\n", EndUL: "</ul>\n",
	BeginULItem: "<li%%{s>0} style=\"font-size:%{s}pt\"%%>", EndULItem: "</li>\n",
	BeginOL: "<ol>\n", EndOL: "</ol>\n",
	BeginOLItem: "<li%%{s>0} style=\"font-size:%{s}pt\"%%>", EndOLItem: "</li>\n",
	BeginDL: "<dl>\n", EndDL: "</dl>\n",
	BeginDT: "<dt%%{s>0} style=\"font-size:%{s}pt\"%%>", EndDT: "</dt>\n",
	BeginDD: "<dd%%{s>0} style=\"font-size:%{s}pt\"%%>", EndDD: "</dd>\n",
	BeginIndent: "<div style=\"margin-left:2em%%{s>0}; font-size:%{s}pt%%\">\n", EndIndent: "</div>\n",
	BeginIndentedPar: "<p%%{s>0} style=\"font-size:%{s}pt\"%%>", EndIndentedPar: "</p>\n",

	BeginTable: "<table>\n", EndTable: "</table>\n",
	BeginRow: "<tr>", EndRow: "</tr>\n",
	BeginHeaderCell: "<th%%{s>0} style=\"font-size:%{s}pt\"%%>", EndHeaderCell: "</th>\n",
	BeginCell: "<td%%{s>0} style=\"font-size:%{s}pt\"%%>", EndCell: "</td>\n",

	HorizontalRule: "<hr />\n",

	Styles: styleSet(
		pair("<b>", "</b>"),
		pair("<i>", "</i>"),
		pair("<u>", "</u>"),
		pair("<sup>", "</sup>"),
		pair("<sub>", "</sub>"),
		pair("<tt>", "</tt>"),
	),

	Link:  LinkFragments{Prefix: "<a href=\"", Suffix: "</a>", Separator: "\">", URLFirst: true},
	Image: LinkFragments{Prefix: "<img src=\"", Suffix: "\" />", Separator: "\" alt=\"", URLFirst: true},
	SuppressStylesInImageAlt: true,

	EncodeChar:    EncodeCharHTML,
	EncodePreChar: EncodeCharHTML,

	WordwrapColumn: 70,
}

const (
	rtfSize  = "%{2*s}"
	rtfSizeH = "%{l=1&3*s|l=2&5*s/2|l=3&2*s|3*s/2}"
)

// RTF renders a minimal RTF document using the Times/Helvetica/Courier
// font table.
var RTF = &Descriptor{
	Name:            "rtf",
	OneSpace:        " ",
	IndentPerLevel:  "",
	DefaultFontSize: 10,
	CtrlChar:        '%',
	MaxHeadingLevel: 4,

	Preamble: "{\\rtf1\\ansi\\deff0" +
		"{\\fonttbl" +
		"{\\f0\\froman Times;}" +
		"{\\f1\\fswiss Helvetica;}" +
		"{\\f2\\fmodern Courier;}" +
		"}\n",
	Postamble: "\n}\n",

	BeginHeading: "{\\pard\\sb%{500-100*l}\\li60\\sa40%%{l=1}\\qc%%\\f1" +
		"\\fs" + rtfSizeH + "%%{l!2}\\b%% %%{i>0}%{i}. %%",
	EndHeading:     "\\par}\n",
	BeginParagraph: "{\\pard\\sb80\\li60\\qj\\fi160\\f0\\fs" + rtfSize + " ",
	EndParagraph:   "\\par}\n",
	LineBreak:      "\\line ",

	BeginPre: "{\\pard\\sb80\\li160\\f2\\fs" + rtfSize + " ", EndPre: "}\n",
	BeginPreLine: "", EndPreLine: "\\par\n",

	BeginUL: "", EndUL: "",
	BeginULItem: "{\\pard\\sb80\\li%{60+100*l}\\qj\\fi160\\f0\\fs" + rtfSize + " * ", EndULItem: "\\par}\n",
	BeginOL: "", EndOL: "",
	BeginOLItem: "{\\pard\\sb80\\li%{60+100*l}\\qj\\fi160\\f0\\fs" + rtfSize + " %{i}", EndOLItem: "\\par}\n",
	BeginDL: "", EndDL: "",
	BeginDT: "{\\pard\\sb80\\li%{60+100*l}\\qj\\f0\\fs" + rtfSize + "\\i ", EndDT: "\\par}\n",
	BeginDD: "{\\pard\\sb80\\qj\\fi160\\f0\\fs" + rtfSize + "\\li320 ", EndDD: "\\par}\n",
	BeginIndent: "", EndIndent: "",
	BeginIndentedPar: "{\\pard\\sb80\\li%{60+100*l}\\qj\\fi160\\f0\\fs" + rtfSize + " ", EndIndentedPar: "\\par}\n",

	BeginTable: "{\\par\\li60 ", EndTable: "\\pard}\n",
	BeginRow: "\\trowd\\trautofit1 ", EndRow: "\\row\n",
	BeginHeaderCell: "\\pard\\intbl\\sb80\\qc\\fi160\\f0\\fs" + rtfSize + " {\\b ", EndHeaderCell: "}\\cell\n",
	BeginCell: "\\pard\\intbl\\sb80\\qj\\fi160\\f0\\fs" + rtfSize + " ", EndCell: "\\cell\n",

	HorizontalRule: "\\hrule\n",

	Styles: styleSet(
		pair("{\\b ", "}"),
		pair("{\\i ", "}"),
		pair("{\\ul ", "}"),
		pair("{\\super ", "}"),
		pair("{\\sub ", "}"),
		pair("{\\f2 ", "}"),
	),

	Link: LinkFragments{
		Prefix:    "{\\field{\\*\\fldinst{HYPERLINK \"",
		Suffix:    "}}",
		Separator: "\"}}{\\fldrslt ",
		URLFirst:  true,
	},
	Image: LinkFragments{URLFirst: true},

	EncodeChar:    EncodeCharRTF,
	EncodePreChar: EncodeCharRTF,
	EncodeURL:     EncodeURLRTF,

	WordwrapColumn: 70,
	Wordwrap:       WordwrapRTF,
}

// LaTeX renders an article-class document.
var LaTeX = &Descriptor{
	Name:            "latex",
	OneSpace:        " ",
	IndentPerLevel:  "  ",
	DefaultFontSize: 10,
	CtrlChar:        '%',
	MaxHeadingLevel: 4,

	Preamble: "\\documentclass[%{s}pt]{article}\n" +
		"\\usepackage{hyperref}\n" +
		"\\begin{document}\n",
	Postamble: "\n\\end{document}\n",

	BeginHeading:   "\n\\%%{l>3&2|l-1}sub%%section%%{l>3|i<1}*%%{",
	EndHeading:     "}\n",
	BeginParagraph: "\n",
	EndParagraph:   "\n",
	LineBreak:      `\\`,

	BeginPre: "\n\\begin{verbatim}\n", EndPre: "\\end{verbatim}\n",
	BeginPreLine: "", EndPreLine: "\n",

	BeginUL: "\\begin{itemize}\n", EndUL: "\\end{itemize}\n",
	BeginULItem: "\\item ", EndULItem: "\n",
	BeginOL: "\\begin{itemize}\n", EndOL: "\\end{itemize}\n",
	BeginOLItem: "\\item[%{i}] ", EndOLItem: "\n",
	BeginDL: "\\begin{itemize}\n", EndDL: "\\end{itemize}\n",
	BeginDT: "\\item[] {\\bf ", EndDT: "} \\hspace{1em} ",
	BeginDD: "\n", EndDD: "\n",
	BeginIndent: "\\begin{itemize}\n", EndIndent: "\\end{itemize}\n",
	BeginIndentedPar: "\\item[] ", EndIndentedPar: "\n",

	BeginTable: "\\begin{tabular}{llllllllllllllll}\n", EndTable: "\\end{tabular}\n",
	BeginRow: "", EndRow: "\\\\\n",
	BeginHeaderCell: "{\\bf ", EndHeaderCell: "} & ",
	BeginCell: "", EndCell: " & ",

	HorizontalRule: "",

	Styles: styleSet(
		pair("{\\bfseries ", "}"),
		pair("{\\itshape ", "}"),
		pair("\\underline{", "}"),
		pair("\\textsuperscript{", "}"),
		pair("\\ensuremath{_{\\mbox{", "}}}"),
		pair("{\\ttfamily ", "}"),
	),

	Link:  LinkFragments{Prefix: "\\href{", Suffix: "}", Separator: "}{", URLFirst: true},
	Image: LinkFragments{URLFirst: true},

	EncodeChar: EncodeCharLaTeX,

	WordwrapColumn: 70,
}

// Man renders troff man-page source with .SH/.SS headings.
var Man = &Descriptor{
	Name:            "man",
	OneSpace:        " ",
	IndentPerLevel:  "",
	DefaultFontSize: 10,
	CtrlChar:        '%',
	MaxHeadingLevel: 2,

	Preamble:  ".TH title 1\n",
	Postamble: "",

	BeginHeading:   "%%{l=1}.SH%%%%{l>1}.SS%% ",
	EndHeading:     "\n",
	BeginParagraph: ".P\n",
	EndParagraph:   "\n",
	LineBreak:      "",

	BeginPre: "", EndPre: "",
	BeginPreLine: " ", EndPreLine: "\n",

	BeginUL: "", EndUL: "",
	BeginULItem: ".IP *\n", EndULItem: "\n",
	BeginOL: "", EndOL: "",
	BeginOLItem: ".IP %{i}\n", EndOLItem: "\n",
	BeginDL: "", EndDL: "",
	BeginDT: ".IP ", EndDT: "\n",
	BeginDD: "", EndDD: "\n",
	BeginIndent: "", EndIndent: "",
	BeginIndentedPar: "\n.P\n", EndIndentedPar: "\n",

	BeginTable: "", EndTable: "",
	BeginRow: "", EndRow: "\n",
	BeginHeaderCell: "", EndHeaderCell: " ",
	BeginCell: "", EndCell: " ",

	HorizontalRule: "\n",

	Styles: styleSet(
		pair("\n.B ", "\n"),
		pair("\n.I ", "\n"),
		pair("", ""),
		pair("", ""),
		pair("", ""),
		pair("", ""),
	),

	Link:  LinkFragments{URLFirst: true},
	Image: LinkFragments{URLFirst: true},

	WordwrapColumn: 70,
}

// Bundled lists every descriptor shipped with the engine.
func Bundled() []*Descriptor {
	return []*Descriptor{Text, TextCompact, Null, NME, HTML, RTF, LaTeX, Man}
}

// Lookup finds a bundled descriptor by its Name.
func Lookup(name string) (*Descriptor, bool) {
	for _, d := range Bundled() {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}
