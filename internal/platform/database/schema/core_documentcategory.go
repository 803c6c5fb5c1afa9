package schema

// CoreDocumentCategoryTable represents the 'core.documentcategory' junction table
type CoreDocumentCategoryTable struct {
	Table      string
	DocumentID string
	CategoryID string
}

// CoreDocumentCategory is the schema definition for core.documentcategory
var CoreDocumentCategory = CoreDocumentCategoryTable{
	Table:      "core.documentcategory",
	DocumentID: "documentid",
	CategoryID: "categoryid",
}
