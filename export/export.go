// Package export writes a built knowledge base to an Excel workbook:
// one sheet per entity category plus a requirement/design traceability
// matrix.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"tracekb/kb"
)

const (
	sheetRequirements = "Requirements"
	sheetDesign       = "Design"
	sheetCode         = "Code"
	sheetTestCases    = "Test Cases"
	sheetMatrix       = "Traceability Matrix"
)

// WriteWorkbook writes the knowledge base to an xlsx file at path.
func WriteWorkbook(base *kb.KnowledgeBase, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRequirements); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeRequirements(f, base); err != nil {
		return err
	}
	if err := writeDesign(f, base); err != nil {
		return err
	}
	if err := writeCode(f, base); err != nil {
		return err
	}
	if err := writeTestCases(f, base); err != nil {
		return err
	}
	if err := writeMatrix(f, base); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeRequirements(f *excelize.File, base *kb.KnowledgeBase) error {
	if err := setRow(f, sheetRequirements, 1,
		"ID", "Kind", "Title", "Description", "Priority / Category", "Acceptance Criteria"); err != nil {
		return err
	}
	row := 2
	for _, fr := range base.Requirements.FR {
		if err := setRow(f, sheetRequirements, row,
			fr.FRID, "FR", fr.Title, fr.Description, fr.Priority, fr.AcceptanceCriteria); err != nil {
			return err
		}
		row++
	}
	for _, nfr := range base.Requirements.NFR {
		if err := setRow(f, sheetRequirements, row,
			nfr.NFRID, "NFR", nfr.Title, nfr.Description, nfr.Category, nfr.AcceptanceCriteria); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeDesign(f *excelize.File, base *kb.KnowledgeBase) error {
	if _, err := f.NewSheet(sheetDesign); err != nil {
		return err
	}
	if err := setRow(f, sheetDesign, 1, "ID", "Title", "Description"); err != nil {
		return err
	}
	for i, d := range base.Design.Sections {
		if err := setRow(f, sheetDesign, i+2, d.DesID, d.Title, d.Description); err != nil {
			return err
		}
	}
	return nil
}

func writeCode(f *excelize.File, base *kb.KnowledgeBase) error {
	if _, err := f.NewSheet(sheetCode); err != nil {
		return err
	}
	if err := setRow(f, sheetCode, 1, "ID", "Type", "Name", "File", "Signature"); err != nil {
		return err
	}
	for i, c := range base.Code.Sections {
		if err := setRow(f, sheetCode, i+2,
			c.CodeID, c.Type, c.Name, c.FilePath, c.Signature); err != nil {
			return err
		}
	}
	return nil
}

func writeTestCases(f *excelize.File, base *kb.KnowledgeBase) error {
	if _, err := f.NewSheet(sheetTestCases); err != nil {
		return err
	}
	if err := setRow(f, sheetTestCases, 1,
		"ID", "Component", "Name", "Description", "Input", "Expected", "Steps"); err != nil {
		return err
	}
	for i, tc := range base.TestCases.Sections {
		if err := setRow(f, sheetTestCases, i+2,
			tc.TCID, tc.Component, tc.Name, tc.Description,
			tc.InputData, tc.ExpectedOutput, strings.Join(tc.TestSteps, "\n")); err != nil {
			return err
		}
	}
	return nil
}

// writeMatrix renders functional requirements against design sections, with
// an X wherever an implements edge exists.
func writeMatrix(f *excelize.File, base *kb.KnowledgeBase) error {
	if _, err := f.NewSheet(sheetMatrix); err != nil {
		return err
	}

	linked := make(map[string]bool)
	for _, r := range base.Relationships.Req2Des {
		linked[r.RequirementID+"|"+r.DesignID] = true
	}

	header := []interface{}{"Requirement"}
	for _, d := range base.Design.Sections {
		header = append(header, d.DesID)
	}
	if err := setRow(f, sheetMatrix, 1, header...); err != nil {
		return err
	}

	row := 2
	writeReqRow := func(id, uuid string) error {
		cells := []interface{}{id}
		for _, d := range base.Design.Sections {
			if linked[uuid+"|"+d.ID] {
				cells = append(cells, "X")
			} else {
				cells = append(cells, "")
			}
		}
		return setRow(f, sheetMatrix, row, cells...)
	}
	for _, fr := range base.Requirements.FR {
		if err := writeReqRow(fr.FRID, fr.ID); err != nil {
			return err
		}
		row++
	}
	for _, nfr := range base.Requirements.NFR {
		if err := writeReqRow(nfr.NFRID, nfr.ID); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
