// Package pdf renders payroll documents: the monthly payslip
// ("holerite") and the 13th-salary receipt. One page is produced per
// document; amounts are printed in Brazilian notation.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/domain/payroll"
	"github.com/oficina-erp/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Header is printed on top of every document.
type Header struct {
	CompanyName string
	IssuedAt    time.Time
}

type line struct {
	label string
	value decimal.Decimal
}

type document struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	contentW float64
	marginL  float64
}

func newDocument() *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	return &document{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		contentW: pageW - marginL - marginR,
		marginL:  marginL,
	}
}

func (d *document) title(h Header, title, subtitle string) {
	d.pdf.SetFillColor(30, 30, 30)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.CellFormat(d.contentW, 9, d.tr(title), "", 1, "L", true, 0, "")
	d.pdf.SetTextColor(0, 0, 0)

	d.pdf.SetFont("Helvetica", "", 9)
	company := h.CompanyName
	if company == "" {
		company = "-"
	}
	d.pdf.CellFormat(d.contentW/2, 6, d.tr("Empresa: "+company), "", 0, "L", false, 0, "")
	d.pdf.CellFormat(d.contentW/2, 6, d.tr(subtitle), "", 1, "R", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) field(label, value string) {
	d.pdf.SetFont("Helvetica", "B", 8.5)
	d.pdf.CellFormat(d.contentW*0.35, 5.5, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 8.5)
	d.pdf.CellFormat(d.contentW*0.65, 5.5, d.tr(value), "", 1, "L", false, 0, "")
}

func (d *document) table(heading string, lines []line, totalLabel string, total decimal.Decimal) {
	descW := d.contentW * 0.7
	valueW := d.contentW - descW

	d.pdf.Ln(3)
	d.pdf.SetFillColor(240, 240, 240)
	d.pdf.SetFont("Helvetica", "B", 8.5)
	d.pdf.CellFormat(descW, 6.5, d.tr(heading), "1", 0, "L", true, 0, "")
	d.pdf.CellFormat(valueW, 6.5, "Valor (R$)", "1", 1, "R", true, 0, "")

	d.pdf.SetFont("Helvetica", "", 8.5)
	for _, l := range lines {
		d.pdf.CellFormat(descW, 6, d.tr(l.label), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(valueW, 6, FormatBRL(l.value), "1", 1, "R", false, 0, "")
	}

	d.pdf.SetFont("Helvetica", "B", 8.5)
	d.pdf.CellFormat(descW, 6.5, d.tr(totalLabel), "1", 0, "L", false, 0, "")
	d.pdf.CellFormat(valueW, 6.5, FormatBRL(total), "1", 1, "R", false, 0, "")
}

func (d *document) net(label string, value decimal.Decimal) {
	d.pdf.Ln(4)
	d.pdf.SetFillColor(220, 240, 220)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.CellFormat(d.contentW*0.7, 8, d.tr(label), "1", 0, "L", true, 0, "")
	d.pdf.CellFormat(d.contentW*0.3, 8, "R$ "+FormatBRL(value), "1", 1, "R", true, 0, "")
}

func (d *document) warnings(ws validator.Warnings) {
	if len(ws) == 0 {
		return
	}
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "I", 7.5)
	d.pdf.SetTextColor(150, 60, 0)
	for _, w := range ws {
		d.pdf.MultiCell(d.contentW, 4.5, d.tr("* "+w.Message), "", "L", false)
	}
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *document) footer(h Header) {
	issued := h.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	d.pdf.Ln(12)
	d.pdf.SetFont("Helvetica", "", 8.5)
	d.pdf.CellFormat(d.contentW, 5, "_______________________________________", "", 1, "C", false, 0, "")
	d.pdf.CellFormat(d.contentW, 5, d.tr("Assinatura do funcionário"), "", 1, "C", false, 0, "")
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "I", 7.5)
	d.pdf.SetTextColor(130, 130, 130)
	d.pdf.CellFormat(d.contentW, 5, d.tr("Emitido em "+issued.Format("02/01/2006 15:04")), "", 1, "R", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// WritePayslip renders the payslip of one monthly payroll sheet.
func WritePayslip(w io.Writer, h Header, p payroll.MonthlyPayroll) error {
	d := newDocument()
	d.title(h, "RECIBO DE PAGAMENTO DE SALÁRIO", "Competência: "+formatCompetence(p.Competence.Month, p.Competence.Year))

	d.field("Funcionário:", stringOr(p.EmployeeName, p.EmployeeID))
	d.field("Dias trabalhados:", fmt.Sprint(p.EffectiveWorkedDays))

	d.table("Proventos", []line{
		{"Salário base", p.Entries.BaseSalary},
		{"Comissões", p.Entries.Commissions},
		{"Horas extras", p.Entries.OvertimeValue},
		{"Bônus", p.Entries.Bonus},
		{"Outros créditos", p.Entries.OtherCredits},
	}, "Total de proventos", p.Entries.Total())

	d.table("Descontos", []line{
		{"Adiantamentos", p.Deductions.Advances},
		{"Faltas", p.Deductions.AbsenceDeduction},
		{"Encargos", p.Deductions.EmployerCharges},
		{"Outros débitos", p.Deductions.OtherDebits},
	}, "Total de descontos", p.Deductions.Total())

	d.net("Salário líquido", p.NetSalary)
	d.warnings(p.Warnings)
	d.footer(h)
	return d.output(w)
}

// WriteBonusReceipt renders the receipt of one 13th-salary installment.
func WriteBonusReceipt(w io.Writer, h Header, r bonus.Record) error {
	d := newDocument()
	d.title(h, "RECIBO DE 13º SALÁRIO", fmt.Sprintf("Ano: %d | %s", r.Year, installmentLabel(r.Installment)))

	d.field("Funcionário:", stringOr(r.EmployeeName, r.EmployeeID))
	twelfths := fmt.Sprintf("%d/12", r.EffectiveTwelfths())
	if r.EditedTwelfths != nil {
		twelfths += fmt.Sprintf(" (editado; apurado %d/12)", r.AccruedTwelfths)
	}
	d.field("Avos:", twelfths)
	if r.TableYear != 0 {
		d.field("Tabela INSS/IRRF:", fmt.Sprint(r.TableYear))
	}

	d.table("Base de cálculo", []line{
		{"Salário base", r.BaseSalary},
		{"Média de horas extras", r.AverageOvertime},
		{"Média de comissões", r.AverageCommission},
		{"Média de outros proventos", r.AverageOther},
	}, "Base total", r.BaseTotal())

	deductions := []line{
		{"INSS (" + bracketOr(r.SocialSecurityBracket) + ")", r.SocialSecurityValue},
		{"IRRF (" + bracketOr(r.IncomeTaxBracket) + ")", r.IncomeTaxValue},
		{"Outros descontos", r.OtherDeductions},
	}
	if r.Installment == bonus.InstallmentSecond {
		deductions = append(deductions, line{"Primeira parcela paga", r.FirstInstallmentValue})
	}
	total := decimal.Zero
	for _, l := range deductions {
		total = total.Add(l.value)
	}

	d.table("Valor bruto e descontos", append([]line{{"13º salário bruto", r.GrossValue}}, deductions...), "Total de descontos", total)

	d.net("Valor líquido", r.NetValue)
	d.warnings(r.Warnings)
	d.footer(h)
	return d.output(w)
}

func installmentLabel(t bonus.InstallmentType) string {
	switch t {
	case bonus.InstallmentFirst:
		return "1ª parcela"
	case bonus.InstallmentSecond:
		return "2ª parcela"
	default:
		return "Parcela única"
	}
}

var monthNames = [...]string{"", "janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro"}

func formatCompetence(month time.Month, year int) string {
	if month < time.January || month > time.December {
		return fmt.Sprint(year)
	}
	return fmt.Sprintf("%s/%d", monthNames[month], year)
}

func stringOr(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}

func bracketOr(label string) string {
	if label == "" {
		return "-"
	}
	return label
}

// FormatBRL formats a value as 1.234,56.
func FormatBRL(v decimal.Decimal) string {
	s := v.Round(2).StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	out := b.String() + "," + frac
	if negative {
		out = "-" + out
	}
	return out
}
