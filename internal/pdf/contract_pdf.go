package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/skillbridge/backend/internal/models"
)

// ContractExporter формирует PDF-версию контракта для скачивания сторонами.
type ContractExporter struct{}

// NewContractExporter создаёт новый экспортер.
func NewContractExporter() *ContractExporter {
	return &ContractExporter{}
}

// Render возвращает PDF-документ контракта. Имена сторон передаются
// отдельно, чтобы не тянуть зависимость на модели пользователей.
func (e *ContractExporter) Render(contract *models.Contract, providerName, clientName string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("cp1251")
	doc.SetTitle(tr("Контракт "+contract.ContractNumber), true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr("КОНТРАКТ НА ОКАЗАНИЕ УСЛУГ"), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 8, tr("№ "+contract.ContractNumber), "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, tr("от "+contract.CreatedAt.Format("02.01.2006")), "", 1, "C", false, 0, "")
	doc.Ln(4)

	section := func(title, body string) {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, tr(body), "", "L", false)
		doc.Ln(2)
	}

	section("1. Предмет договора", contract.ServiceDescription)
	section("2. Результаты работ", contract.Deliverables)
	section("3. Сроки", contract.Timeline)
	section("4. Оплата", fmt.Sprintf("%s\n\nСумма: %s", contract.PaymentTerms, contract.PaymentAmount.StringFixed(2)))
	section("5. Правки", contract.RevisionPolicy)
	section("6. Права на результаты", contract.IPOwnership)
	section("7. Условия отмены", contract.CancellationPolicy)
	if contract.AdditionalTerms != nil && *contract.AdditionalTerms != "" {
		section("8. Дополнительные условия", *contract.AdditionalTerms)
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, tr("Подписи сторон"), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	renderSignature(doc, tr, "Исполнитель", providerName, contract.ProviderSigned, contract.ProviderSignedAt, contract.ProviderIP)
	renderSignature(doc, tr, "Клиент", clientName, contract.ClientSigned, contract.ClientSignedAt, contract.ClientIP)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: не удалось сформировать документ: %w", err)
	}
	return buf.Bytes(), nil
}

func renderSignature(doc *fpdf.Fpdf, tr func(string) string, role, name string, signed bool, signedAt *time.Time, ip *string) {
	status := "не подписано"
	if signed {
		status = "подписано"
		if signedAt != nil {
			status += " " + signedAt.Format("02.01.2006 15:04")
		}
		if ip != nil && *ip != "" {
			status += ", IP " + *ip
		}
	}
	doc.MultiCell(0, 6, tr(fmt.Sprintf("%s: %s (%s)", role, name, status)), "", "L", false)
}
