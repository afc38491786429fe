package descriptions

// Tool descriptions with practical examples and use cases

const (
	ActaExtractMetadataDescription = `Extract the header facts of a hand-over record (acta): date, document number, location code and the receiving officer.

**When to use:** Before reconciling, to check what will be written to the inventory for a given acta.

**Why it's useful:** Acta layouts drift between units. Every field is located by a chain of heuristics (structured date boxes, label rows, text patterns, fixed rows) and the response names the heuristic that produced each value.

**Examples:**
• Check an acta: "What date and location does acta-1432.xlsx carry?"
• Find the recipient: "Who received the equipment in ACTA No. 55-2025?"

**Common workflows:**
1. Review: Extract metadata → fix the acta if a field is missing → reconcile
2. Audit: Extract metadata from a folder of actas → compare dates and locations

**Best practices:** Look at the 'missing' list. A missing date or location is not an error, but the inventory will receive empty values for it.`

	ActaReadItemsDescription = `Read the item table of a hand-over record: description, serial, inventory code, acquisition value, quantity and observation per row.

**When to use:** To inspect which items an acta transfers and how much they are worth before reconciling.

**Why it's useful:** Columns are found by their header text, not by position, and reading stops at the "OBSERVACIONES Y RECOMENDACIONES" block.

**Examples:**
• List serials: "Which serial numbers are in acta-1432.xlsx?"
• Total value: "What is the total acquisition value of this acta?"

**Best practices:** Use start_row when the table header is not on row 26.`

	InventoryPreviewDescription = `Dry run of a reconciliation: reports which acta items would update existing inventory rows and which would go to the SIN SERIAL sheet, without writing anything.

**When to use:** Always before inventory_reconcile on an unfamiliar inventory workbook.

**Examples:**
• "How many items of acta-1432.xlsx already exist in INVENTARIO 2025.xlsx?"
• "Which serials from this acta are not in the inventory?"

**Common workflows:**
1. Preview → review not_found items → reconcile
2. Preview → inventory_validate_file when no sheet was indexed

**Best practices:** Check 'warnings'. NO_OVERFLOW_TARGET means unmatched items would not be persisted.`

	InventoryReconcileDescription = `Apply a hand-over record to an inventory workbook and write the updated copy.

**When to use:** To record the transfer of the items of an acta: every inventory row whose serial matches gets the new responsible party, location, acta number and assignment date; unmatched items are appended to the SIN SERIAL sheet.

**Why it's useful:** Matching ignores case, spaces and dashes in serials and searches every sheet with a serial column (TECNOLOGIA, INMOBILIARIO, FUERA and others).

**Examples:**
• "Update INVENTARIO 2025.xlsx with acta-1432.xlsx"
• "Reconcile acta 55 into the inventory and save it to the reports folder"

**Best practices:** The input workbook is never modified. The result is written as '<name> DDMONYY - HH_MM.xlsx' next to the inventory or in output_directory.`

	InventoryValidateFileDescription = `Verify that a workbook is readable and describe its sheets.

**When to use:** Before reconciling against a workbook you have not used before.

**Why it's useful:** Reports for every sheet its category, row count, whether it has a serial column, and which sheets act as the overflow (SIN SERIAL) and identity (CC) sheets.

**Examples:**
• "Is INVENTARIO 2025.xlsx usable?"
• "Which sheets of this workbook will be searched for serials?"

**Best practices:** A workbook with no indexable sheet cannot be reconciled.`

	InventorySearchDirectoryDescription = `Find spreadsheet files (.xlsx, .xlsm, .xls) under the work directory.

**When to use:** Locate actas and inventory workbooks when you only know part of the name.

**Examples:**
• "Find all actas from November": query "acta nov"
• "Where is the inventory workbook?": query "inventario"

**Best practices:** Matching ignores case and accents and accepts words in any order.`

	InventoryServerInfoDescription = `Get server capabilities, configured defaults and the spreadsheets found in the work directory.

**When to use:** At the start of a session to discover the tools and the files available.

**Best practices:** Directory listing is capped and time limited; use inventory_search_directory for a full listing.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"acta_extract_metadata":      ActaExtractMetadataDescription,
	"acta_read_items":            ActaReadItemsDescription,
	"inventory_preview":          InventoryPreviewDescription,
	"inventory_reconcile":        InventoryReconcileDescription,
	"inventory_validate_file":    InventoryValidateFileDescription,
	"inventory_search_directory": InventorySearchDirectoryDescription,
	"inventory_server_info":      InventoryServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
