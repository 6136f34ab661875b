package doctree

// Kind names a node type. Values match docutils element names.
type Kind string

const (
	KindDocument Kind = "document"
	KindSection  Kind = "section"
	KindTitle    Kind = "title"
	KindSubtitle Kind = "subtitle"
	KindText     Kind = "#text"

	KindParagraph     Kind = "paragraph"
	KindBulletList    Kind = "bullet_list"
	KindEnumList      Kind = "enumerated_list"
	KindListItem      Kind = "list_item"
	KindDefList       Kind = "definition_list"
	KindDefListItem   Kind = "definition_list_item"
	KindTerm          Kind = "term"
	KindClassifier    Kind = "classifier"
	KindDefinition    Kind = "definition"
	KindFieldList     Kind = "field_list"
	KindField         Kind = "field"
	KindFieldName     Kind = "field_name"
	KindFieldBody     Kind = "field_body"
	KindLineBlock     Kind = "line_block"
	KindLine          Kind = "line"
	KindLiteralBlock  Kind = "literal_block"
	KindBlockQuote    Kind = "block_quote"
	KindAttribution   Kind = "attribution"
	KindContainer     Kind = "container"
	KindTransition    Kind = "transition"
	KindTopic         Kind = "topic"
	KindSidebar       Kind = "sidebar"
	KindRubric        Kind = "rubric"
	KindFigure        Kind = "figure"
	KindCaption       Kind = "caption"
	KindLegend        Kind = "legend"
	KindImage         Kind = "image"
	KindComment       Kind = "comment"
	KindRaw           Kind = "raw"
	KindTarget        Kind = "target"
	KindSubstitution  Kind = "substitution_definition"
	KindSystemMessage Kind = "system_message"
	KindDecoration    Kind = "decoration"
	KindHeader        Kind = "header"
	KindFooter        Kind = "footer"

	KindTable   Kind = "table"
	KindTGroup  Kind = "tgroup"
	KindColSpec Kind = "colspec"
	KindTHead   Kind = "thead"
	KindTBody   Kind = "tbody"
	KindRow     Kind = "row"
	KindEntry   Kind = "entry"

	KindDocinfo      Kind = "docinfo"
	KindAuthor       Kind = "author"
	KindAuthors      Kind = "authors"
	KindOrganization Kind = "organization"
	KindAddress      Kind = "address"
	KindContact      Kind = "contact"
	KindVersion      Kind = "version"
	KindRevision     Kind = "revision"
	KindStatus       Kind = "status"
	KindDate         Kind = "date"
	KindCopyright    Kind = "copyright"

	KindEmphasis       Kind = "emphasis"
	KindStrong         Kind = "strong"
	KindLiteral        Kind = "literal"
	KindReference      Kind = "reference"
	KindTitleReference Kind = "title_reference"
	KindSubscript      Kind = "subscript"
	KindSuperscript    Kind = "superscript"
	KindInline         Kind = "inline"
	KindAbbreviation   Kind = "abbreviation"
	KindProblematic    Kind = "problematic"

	KindAdmonition Kind = "admonition"
	KindAttention  Kind = "attention"
	KindCaution    Kind = "caution"
	KindDanger     Kind = "danger"
	KindError      Kind = "error"
	KindHint       Kind = "hint"
	KindImportant  Kind = "important"
	KindNote       Kind = "note"
	KindTip        Kind = "tip"
	KindWarning    Kind = "warning"
)

// Admonitions lists the specific admonition kinds, which carry no title child.
var Admonitions = []Kind{
	KindAttention, KindCaution, KindDanger, KindError, KindHint,
	KindImportant, KindNote, KindTip, KindWarning,
}

// DocinfoItems lists the bibliographic kinds that may appear inside docinfo.
var DocinfoItems = []Kind{
	KindAuthor, KindAuthors, KindOrganization, KindAddress, KindContact,
	KindVersion, KindRevision, KindStatus, KindDate, KindCopyright,
}

var textElements = map[Kind]bool{
	KindParagraph: true, KindTitle: true, KindSubtitle: true, KindTerm: true,
	KindClassifier: true, KindLine: true, KindLiteralBlock: true, KindAttribution: true,
	KindRubric: true, KindCaption: true, KindFieldName: true, KindAddress: true,
	KindAuthor: true, KindOrganization: true, KindContact: true, KindVersion: true,
	KindRevision: true, KindStatus: true, KindDate: true, KindCopyright: true,
	KindEmphasis: true, KindStrong: true, KindLiteral: true, KindReference: true,
	KindTitleReference: true, KindSubscript: true, KindSuperscript: true,
	KindInline: true, KindAbbreviation: true, KindProblematic: true, KindTarget: true,
	KindComment: true, KindRaw: true,
}

var bodyElements = map[Kind]bool{
	KindParagraph: true, KindBulletList: true, KindEnumList: true, KindDefList: true,
	KindFieldList: true, KindLineBlock: true, KindLiteralBlock: true, KindBlockQuote: true,
	KindContainer: true, KindTable: true, KindFigure: true, KindTopic: true,
	KindSidebar: true, KindRubric: true, KindComment: true, KindRaw: true,
	KindTransition: true, KindAdmonition: true, KindSection: true,
}

// IsTextElement reports whether nodes of kind k hold inline content.
func (k Kind) IsTextElement() bool { return textElements[k] }

// IsBody reports whether k is a block-level body element.
func (k Kind) IsBody() bool {
	if bodyElements[k] {
		return true
	}
	return k.IsAdmonition()
}

// IsAdmonition reports whether k is a specific admonition kind.
func (k Kind) IsAdmonition() bool {
	for _, a := range Admonitions {
		if a == k {
			return true
		}
	}
	return false
}

// IsDocinfoItem reports whether k is a bibliographic field kind.
func (k Kind) IsDocinfoItem() bool {
	for _, d := range DocinfoItems {
		if d == k {
			return true
		}
	}
	return false
}
