package xmlcodec

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
)

// UBL 2.1 namespace URIs, lifted from the XRechnung/Peppol BIS Billing
// schemas. The customization/profile identifiers below are what KoSIT and
// OpenPeppol validators key conformance checks on; they are not invented
// here, they are the fixed strings every CIUS document must carry.
const (
	ublNSInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	ublNSCredit  = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	ublNSCAC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	ublNSCBC     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	xrechnungCustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"
	peppolProfileID          = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"
)

type ublCodec struct{}

func (ublCodec) Syntax() Syntax { return SyntaxUBL }

func (ublCodec) Sniff(data []byte) bool {
	return hasRootLocalName(data, "Invoice", "CreditNote") && !hasRootLocalName(data, "CrossIndustryInvoice")
}

func (ublCodec) Encode(inv *model.Invoice) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rootTag, lineTag := "Invoice", "InvoiceLine"
	ns := ublNSInvoice
	if inv.TypeCode.IsCreditNote() {
		rootTag, lineTag, ns = "CreditNote", "CreditNoteLine", ublNSCredit
	}

	root := doc.CreateElement(rootTag)
	root.CreateAttr("xmlns", ns)
	root.CreateAttr("xmlns:cac", ublNSCAC)
	root.CreateAttr("xmlns:cbc", ublNSCBC)

	cbcEl(root, "cbc:CustomizationID", xrechnungCustomizationID)
	cbcEl(root, "cbc:ProfileID", peppolProfileID)
	cbcEl(root, "cbc:ID", inv.Number)
	cbcEl(root, "cbc:IssueDate", inv.IssueDate)
	if inv.DueDate != "" {
		cbcEl(root, "cbc:DueDate", inv.DueDate)
	}
	cbcEl(root, "cbc:InvoiceTypeCode", strconv.Itoa(int(inv.TypeCode)))
	for _, n := range inv.Notes {
		cbcEl(root, "cbc:Note", n)
	}
	if inv.TaxPointDate != "" {
		cbcEl(root, "cbc:TaxPointDate", inv.TaxPointDate)
	}
	cbcEl(root, "cbc:DocumentCurrencyCode", inv.Currency)
	if inv.TaxCurrency != "" {
		cbcEl(root, "cbc:TaxCurrencyCode", inv.TaxCurrency)
	}
	if inv.BuyerReference != "" {
		cbcEl(root, "cbc:BuyerReference", inv.BuyerReference)
	}

	if inv.InvoicingPeriod != nil {
		p := root.CreateElement("cac:InvoicePeriod")
		if inv.InvoicingPeriod.Start != "" {
			cbcEl(p, "cbc:StartDate", inv.InvoicingPeriod.Start)
		}
		if inv.InvoicingPeriod.End != "" {
			cbcEl(p, "cbc:EndDate", inv.InvoicingPeriod.End)
		}
	}
	if inv.OrderReference != "" {
		orderRef := root.CreateElement("cac:OrderReference")
		cbcEl(orderRef, "cbc:ID", inv.OrderReference)
	}
	for _, pre := range inv.PrecedingInvoices {
		ref := root.CreateElement("cac:BillingReference")
		docRef := ref.CreateElement("cac:InvoiceDocumentReference")
		cbcEl(docRef, "cbc:ID", pre.Number)
		if pre.IssueDate != "" {
			cbcEl(docRef, "cbc:IssueDate", pre.IssueDate)
		}
	}
	if inv.ContractReference != "" {
		ref := root.CreateElement("cac:ContractDocumentReference")
		cbcEl(ref, "cbc:ID", inv.ContractReference)
	}
	for _, att := range inv.Attachments {
		writeUBLAttachment(root, att)
	}

	writeUBLParty(root, "cac:AccountingSupplierParty", inv.Seller, true)
	writeUBLParty(root, "cac:AccountingCustomerParty", inv.Buyer, true)
	if inv.Payee != nil {
		writeUBLParty(root, "cac:PayeeParty", *inv.Payee, false)
	}
	if inv.TaxRepresentative != nil {
		writeUBLParty(root, "cac:TaxRepresentativeParty", *inv.TaxRepresentative, false)
	}

	if inv.DeliveryAddress != nil || inv.DeliveryDate != "" {
		d := root.CreateElement("cac:Delivery")
		if inv.DeliveryDate != "" {
			cbcEl(d, "cbc:ActualDeliveryDate", inv.DeliveryDate)
		}
		if inv.DeliveryAddress != nil {
			loc := d.CreateElement("cac:DeliveryLocation")
			writeUBLAddress(loc, *inv.DeliveryAddress)
		}
	}

	if !inv.Payment.IsZero() {
		writeUBLPaymentMeans(root, inv.Payment)
	}
	if inv.PaymentTerms != "" {
		pt := root.CreateElement("cac:PaymentTerms")
		cbcEl(pt, "cbc:Note", inv.PaymentTerms)
	}

	for _, a := range inv.Allowances {
		writeUBLAllowanceCharge(root, a, inv.Currency)
	}
	for _, c := range inv.Charges {
		writeUBLAllowanceCharge(root, c, inv.Currency)
	}

	writeUBLTaxTotal(root, inv.Totals, inv.Currency)
	writeUBLLegalMonetaryTotal(root, inv.Totals, inv.Currency)

	for _, line := range inv.Lines {
		writeUBLLine(root, lineTag, line, inv.Currency)
	}

	return doc.WriteToBytes()
}

func cbcEl(parent *etree.Element, tag, text string) *etree.Element {
	e := parent.CreateElement(tag)
	e.SetText(text)
	return e
}

func amountEl(parent *etree.Element, tag string, amount decimal.Decimal, currency string) *etree.Element {
	e := parent.CreateElement(tag)
	e.CreateAttr("currencyID", currency)
	e.SetText(formatAmount(amount))
	return e
}

func writeUBLAddress(parent *etree.Element, a model.Address) {
	addr := parent.CreateElement("cac:PostalAddress")
	if a.Street != "" {
		cbcEl(addr, "cbc:StreetName", a.Street)
	}
	if a.AdditionalStreet != "" {
		cbcEl(addr, "cbc:AdditionalStreetName", a.AdditionalStreet)
	}
	cbcEl(addr, "cbc:CityName", a.City)
	cbcEl(addr, "cbc:PostalZone", a.PostalCode)
	if a.Subdivision != "" {
		cbcEl(addr, "cbc:CountrySubentity", a.Subdivision)
	}
	country := addr.CreateElement("cac:Country")
	cbcEl(country, "cbc:IdentificationCode", a.CountryCode)
}

func writeUBLParty(parent *etree.Element, wrapperTag string, p model.Party, withAddress bool) {
	wrapper := parent.CreateElement(wrapperTag)
	party := wrapper.CreateElement("cac:Party")
	if p.ElectronicAddress != nil {
		id := party.CreateElement("cbc:EndpointID")
		id.CreateAttr("schemeID", p.ElectronicAddress.Scheme)
		id.SetText(p.ElectronicAddress.Value)
	}
	if p.TradingName != "" {
		name := party.CreateElement("cac:PartyName")
		cbcEl(name, "cbc:Name", p.TradingName)
	}
	if withAddress {
		writeUBLAddress(party, p.Address)
	}
	if p.VATID != "" {
		scheme := party.CreateElement("cac:PartyTaxScheme")
		cbcEl(scheme, "cbc:CompanyID", p.VATID)
		ts := scheme.CreateElement("cac:TaxScheme")
		cbcEl(ts, "cbc:ID", "VAT")
	}
	legal := party.CreateElement("cac:PartyLegalEntity")
	cbcEl(legal, "cbc:RegistrationName", p.Name)
	if p.RegistrationID != "" {
		cbcEl(legal, "cbc:CompanyID", p.RegistrationID)
	}
	if p.Contact != nil {
		c := party.CreateElement("cac:Contact")
		if p.Contact.Name != "" {
			cbcEl(c, "cbc:Name", p.Contact.Name)
		}
		if p.Contact.Phone != "" {
			cbcEl(c, "cbc:Telephone", p.Contact.Phone)
		}
		if p.Contact.Email != "" {
			cbcEl(c, "cbc:ElectronicMail", p.Contact.Email)
		}
	}
}

func writeUBLPaymentMeans(parent *etree.Element, pay model.PaymentInstructions) {
	pm := parent.CreateElement("cac:PaymentMeans")
	cbcEl(pm, "cbc:PaymentMeansCode", strconv.Itoa(int(pay.MeansCode)))
	if pay.RemittanceInfo != "" {
		cbcEl(pm, "cbc:PaymentID", pay.RemittanceInfo)
	}
	if pay.CreditTransfer != nil {
		acc := pm.CreateElement("cac:PayeeFinancialAccount")
		cbcEl(acc, "cbc:ID", pay.CreditTransfer.IBAN)
		if pay.CreditTransfer.AccountName != "" {
			cbcEl(acc, "cbc:Name", pay.CreditTransfer.AccountName)
		}
		if pay.CreditTransfer.BIC != "" {
			branch := acc.CreateElement("cac:FinancialInstitutionBranch")
			cbcEl(branch, "cbc:ID", pay.CreditTransfer.BIC)
		}
	}
	if pay.CardPayment != nil {
		card := pm.CreateElement("cac:CardAccount")
		cbcEl(card, "cbc:PrimaryAccountNumberID", pay.CardPayment.PANLastDigits)
		if pay.CardPayment.HolderName != "" {
			cbcEl(card, "cbc:HolderName", pay.CardPayment.HolderName)
		}
	}
	if pay.DirectDebit != nil {
		mandate := pm.CreateElement("cac:PaymentMandate")
		cbcEl(mandate, "cbc:ID", pay.DirectDebit.MandateID)
		acc := mandate.CreateElement("cac:PayerFinancialAccount")
		cbcEl(acc, "cbc:ID", pay.DirectDebit.DebitedIBAN)
	}
}

func writeUBLAllowanceCharge(parent *etree.Element, ac model.AllowanceCharge, currency string) {
	e := parent.CreateElement("cac:AllowanceCharge")
	cbcEl(e, "cbc:ChargeIndicator", strconv.FormatBool(ac.IsCharge))
	if ac.ReasonCode != "" {
		cbcEl(e, "cbc:AllowanceChargeReasonCode", ac.ReasonCode)
	}
	if ac.Reason != "" {
		cbcEl(e, "cbc:AllowanceChargeReason", ac.Reason)
	}
	if ac.Percentage != nil {
		cbcEl(e, "cbc:MultiplierFactorNumeric", formatPercent(*ac.Percentage))
	}
	amountEl(e, "cbc:Amount", ac.Amount, currency)
	if ac.BaseAmount != nil {
		amountEl(e, "cbc:BaseAmount", *ac.BaseAmount, currency)
	}
	cat := e.CreateElement("cac:TaxCategory")
	cbcEl(cat, "cbc:ID", string(ac.TaxCategory))
	cbcEl(cat, "cbc:Percent", formatPercent(ac.TaxRate))
	ts := cat.CreateElement("cac:TaxScheme")
	cbcEl(ts, "cbc:ID", "VAT")
}

func writeUBLTaxTotal(parent *etree.Element, t model.Totals, currency string) {
	tt := parent.CreateElement("cac:TaxTotal")
	amountEl(tt, "cbc:TaxAmount", t.VATTotal, currency)
	for _, vb := range t.VATBreakdown {
		sub := tt.CreateElement("cac:TaxSubtotal")
		amountEl(sub, "cbc:TaxableAmount", vb.TaxableAmount, currency)
		amountEl(sub, "cbc:TaxAmount", vb.TaxAmount, currency)
		cat := sub.CreateElement("cac:TaxCategory")
		cbcEl(cat, "cbc:ID", string(vb.Category))
		cbcEl(cat, "cbc:Percent", formatPercent(vb.Rate))
		if vb.ExemptionReason != "" {
			cbcEl(cat, "cbc:TaxExemptionReason", vb.ExemptionReason)
		}
		if vb.ExemptionReasonCode != "" {
			cbcEl(cat, "cbc:TaxExemptionReasonCode", vb.ExemptionReasonCode)
		}
		ts := cat.CreateElement("cac:TaxScheme")
		cbcEl(ts, "cbc:ID", "VAT")
	}
}

func writeUBLLegalMonetaryTotal(parent *etree.Element, t model.Totals, currency string) {
	lmt := parent.CreateElement("cac:LegalMonetaryTotal")
	amountEl(lmt, "cbc:LineExtensionAmount", t.LineNetTotal, currency)
	amountEl(lmt, "cbc:TaxExclusiveAmount", t.TaxExclusiveTotal, currency)
	amountEl(lmt, "cbc:TaxInclusiveAmount", t.TaxInclusiveTotal, currency)
	if !t.AllowancesTotal.IsZero() {
		amountEl(lmt, "cbc:AllowanceTotalAmount", t.AllowancesTotal, currency)
	}
	if !t.ChargesTotal.IsZero() {
		amountEl(lmt, "cbc:ChargeTotalAmount", t.ChargesTotal, currency)
	}
	if !t.Prepaid.IsZero() {
		amountEl(lmt, "cbc:PrepaidAmount", t.Prepaid, currency)
	}
	if !t.RoundingAmount.IsZero() {
		amountEl(lmt, "cbc:PayableRoundingAmount", t.RoundingAmount, currency)
	}
	amountEl(lmt, "cbc:PayableAmount", t.AmountDue, currency)
}

func writeUBLLine(parent *etree.Element, lineTag string, l model.LineItem, currency string) {
	line := parent.CreateElement(lineTag)
	cbcEl(line, "cbc:ID", l.ID)
	qty := line.CreateElement("cbc:InvoicedQuantity")
	qty.CreateAttr("unitCode", l.UnitCode)
	qty.SetText(formatPercent(l.Quantity))
	amountEl(line, "cbc:LineExtensionAmount", l.LineNet, currency)
	if l.Period != nil {
		p := line.CreateElement("cac:InvoicePeriod")
		if l.Period.Start != "" {
			cbcEl(p, "cbc:StartDate", l.Period.Start)
		}
		if l.Period.End != "" {
			cbcEl(p, "cbc:EndDate", l.Period.End)
		}
	}
	for _, a := range l.Allowances {
		writeUBLAllowanceCharge(line, a, currency)
	}
	for _, c := range l.Charges {
		writeUBLAllowanceCharge(line, c, currency)
	}
	item := line.CreateElement("cac:Item")
	if l.Description != "" {
		cbcEl(item, "cbc:Description", l.Description)
	}
	cbcEl(item, "cbc:Name", l.ItemName)
	if l.OriginCountry != "" {
		origin := item.CreateElement("cac:OriginCountry")
		cbcEl(origin, "cbc:IdentificationCode", l.OriginCountry)
	}
	cat := item.CreateElement("cac:ClassifiedTaxCategory")
	cbcEl(cat, "cbc:ID", string(l.TaxCategory))
	cbcEl(cat, "cbc:Percent", formatPercent(l.TaxRate))
	ts := cat.CreateElement("cac:TaxScheme")
	cbcEl(ts, "cbc:ID", "VAT")
	if l.StandardItemID != "" {
		sid := item.CreateElement("cac:StandardItemIdentification")
		cbcEl(sid, "cbc:ID", l.StandardItemID)
	}
	if l.SellerItemID != "" {
		sid := item.CreateElement("cac:SellersItemIdentification")
		cbcEl(sid, "cbc:ID", l.SellerItemID)
	}
	price := line.CreateElement("cac:Price")
	priceAmount := l.UnitPrice
	if l.GrossPrice != nil {
		priceAmount = *l.GrossPrice
	}
	amountEl(price, "cbc:PriceAmount", priceAmount, currency)
	if l.BaseQuantity != nil {
		bq := price.CreateElement("cbc:BaseQuantity")
		if l.BaseQuantityUnit != "" {
			bq.CreateAttr("unitCode", l.BaseQuantityUnit)
		}
		bq.SetText(formatPercent(*l.BaseQuantity))
	}
}

func writeUBLAttachment(parent *etree.Element, att model.DocumentAttachment) {
	ref := parent.CreateElement("cac:AdditionalDocumentReference")
	cbcEl(ref, "cbc:ID", att.ID)
	if att.Description != "" {
		cbcEl(ref, "cbc:DocumentDescription", att.Description)
	}
	if len(att.Embedded) > 0 {
		obj := ref.CreateElement("cac:Attachment")
		bin := obj.CreateElement("cbc:EmbeddedDocumentBinaryObject")
		if att.MimeType != "" {
			bin.CreateAttr("mimeCode", att.MimeType)
		}
		if att.Filename != "" {
			bin.CreateAttr("filename", att.Filename)
		}
		bin.SetText(encodeBase64(att.Embedded))
	} else if att.URI != "" {
		obj := ref.CreateElement("cac:Attachment")
		uri := obj.CreateElement("cac:ExternalReference")
		cbcEl(uri, "cbc:URI", att.URI)
	}
}

// Decode parses a UBL Invoice or CreditNote document into an Invoice.
// Matching is by local element name only (see Element.Tag semantics in
// beevik/etree), so documents using a default namespace or different
// prefixes than the ones Encode writes still parse.
func (ublCodec) Decode(data []byte) (*model.Invoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewXMLSyntaxError("malformed XML document", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewXMLSyntaxError("empty document", nil)
	}

	inv := &model.Invoice{}
	inv.Number = childText(root, "ID")
	inv.IssueDate = childText(root, "IssueDate")
	inv.DueDate = childText(root, "DueDate")
	if tc := childText(root, "InvoiceTypeCode"); tc != "" {
		n, _ := strconv.Atoi(tc)
		inv.TypeCode = codetables.InvoiceTypeCode(n)
	} else if root.Tag == "CreditNote" {
		inv.TypeCode = codetables.TypeCreditNote
	}
	inv.Currency = childText(root, "DocumentCurrencyCode")
	inv.TaxCurrency = childText(root, "TaxCurrencyCode")
	inv.BuyerReference = childText(root, "BuyerReference")
	inv.TaxPointDate = childText(root, "TaxPointDate")
	for _, n := range root.SelectElements("Note") {
		inv.Notes = append(inv.Notes, strings.TrimSpace(n.Text()))
	}

	if period := root.SelectElement("InvoicePeriod"); period != nil {
		inv.InvoicingPeriod = &model.Period{
			Start: childText(period, "StartDate"),
			End:   childText(period, "EndDate"),
		}
	}
	if orderRef := root.SelectElement("OrderReference"); orderRef != nil {
		inv.OrderReference = childText(orderRef, "ID")
	}
	for _, br := range root.SelectElements("BillingReference") {
		if docRef := br.SelectElement("InvoiceDocumentReference"); docRef != nil {
			inv.PrecedingInvoices = append(inv.PrecedingInvoices, model.PrecedingInvoiceReference{
				Number:    childText(docRef, "ID"),
				IssueDate: childText(docRef, "IssueDate"),
			})
		}
	}
	if contractRef := root.SelectElement("ContractDocumentReference"); contractRef != nil {
		inv.ContractReference = childText(contractRef, "ID")
	}
	for _, adr := range root.SelectElements("AdditionalDocumentReference") {
		inv.Attachments = append(inv.Attachments, readUBLAttachment(adr))
	}

	if supplier := root.SelectElement("AccountingSupplierParty"); supplier != nil {
		if p := supplier.SelectElement("Party"); p != nil {
			inv.Seller = readUBLParty(p)
		}
	}
	if customer := root.SelectElement("AccountingCustomerParty"); customer != nil {
		if p := customer.SelectElement("Party"); p != nil {
			inv.Buyer = readUBLParty(p)
		}
	}
	if payee := root.SelectElement("PayeeParty"); payee != nil {
		if p := payee.SelectElement("Party"); p != nil {
			party := readUBLParty(p)
			inv.Payee = &party
		} else {
			party := readUBLParty(payee)
			inv.Payee = &party
		}
	}
	if rep := root.SelectElement("TaxRepresentativeParty"); rep != nil {
		party := readUBLParty(rep)
		inv.TaxRepresentative = &party
	}

	if delivery := root.SelectElement("Delivery"); delivery != nil {
		inv.DeliveryDate = childText(delivery, "ActualDeliveryDate")
		if loc := delivery.SelectElement("DeliveryLocation"); loc != nil {
			if addr := loc.SelectElement("PostalAddress"); addr != nil {
				a := readUBLAddress(addr)
				inv.DeliveryAddress = &a
			}
		}
	}

	if pm := root.SelectElement("PaymentMeans"); pm != nil {
		inv.Payment = readUBLPaymentMeans(pm)
	}
	if pt := root.SelectElement("PaymentTerms"); pt != nil {
		inv.PaymentTerms = childText(pt, "Note")
	}

	for _, e := range root.SelectElements("AllowanceCharge") {
		ac := readUBLAllowanceCharge(e)
		if ac.IsCharge {
			inv.Charges = append(inv.Charges, ac)
		} else {
			inv.Allowances = append(inv.Allowances, ac)
		}
	}

	if tt := root.SelectElement("TaxTotal"); tt != nil {
		inv.Totals.VATTotal = mustParseAmount(childText(tt, "TaxAmount"))
		for _, sub := range tt.SelectElements("TaxSubtotal") {
			vb := model.VATBreakdown{
				TaxableAmount: mustParseAmount(childText(sub, "TaxableAmount")),
				TaxAmount:     mustParseAmount(childText(sub, "TaxAmount")),
			}
			if cat := sub.SelectElement("TaxCategory"); cat != nil {
				vb.Category = codetables.TaxCategory(childText(cat, "ID"))
				vb.Rate = mustParseAmount(childText(cat, "Percent"))
				vb.ExemptionReason = childText(cat, "TaxExemptionReason")
				vb.ExemptionReasonCode = childText(cat, "TaxExemptionReasonCode")
			}
			inv.Totals.VATBreakdown = append(inv.Totals.VATBreakdown, vb)
		}
	}
	if lmt := root.SelectElement("LegalMonetaryTotal"); lmt != nil {
		inv.Totals.LineNetTotal = mustParseAmount(childText(lmt, "LineExtensionAmount"))
		inv.Totals.TaxExclusiveTotal = mustParseAmount(childText(lmt, "TaxExclusiveAmount"))
		inv.Totals.TaxInclusiveTotal = mustParseAmount(childText(lmt, "TaxInclusiveAmount"))
		inv.Totals.AllowancesTotal = mustParseAmount(childText(lmt, "AllowanceTotalAmount"))
		inv.Totals.ChargesTotal = mustParseAmount(childText(lmt, "ChargeTotalAmount"))
		inv.Totals.Prepaid = mustParseAmount(childText(lmt, "PrepaidAmount"))
		inv.Totals.RoundingAmount = mustParseAmount(childText(lmt, "PayableRoundingAmount"))
		inv.Totals.AmountDue = mustParseAmount(childText(lmt, "PayableAmount"))
	}

	for _, tag := range []string{"InvoiceLine", "CreditNoteLine"} {
		for _, e := range root.SelectElements(tag) {
			inv.Lines = append(inv.Lines, readUBLLine(e))
		}
	}

	return inv, nil
}

func childText(parent *etree.Element, tag string) string {
	if parent == nil {
		return ""
	}
	e := parent.SelectElement(tag)
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Text())
}

func mustParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := parseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func readUBLAddress(addr *etree.Element) model.Address {
	a := model.Address{
		Street:           childText(addr, "StreetName"),
		AdditionalStreet: childText(addr, "AdditionalStreetName"),
		City:             childText(addr, "CityName"),
		PostalCode:       childText(addr, "PostalZone"),
		Subdivision:      childText(addr, "CountrySubentity"),
	}
	if country := addr.SelectElement("Country"); country != nil {
		a.CountryCode = childText(country, "IdentificationCode")
	}
	return a
}

func readUBLParty(party *etree.Element) model.Party {
	p := model.Party{}
	if ep := party.SelectElement("EndpointID"); ep != nil {
		p.ElectronicAddress = &model.ElectronicAddress{
			Scheme: ep.SelectAttrValue("schemeID", ""),
			Value:  strings.TrimSpace(ep.Text()),
		}
	}
	if name := party.SelectElement("PartyName"); name != nil {
		p.TradingName = childText(name, "Name")
	}
	if addr := party.SelectElement("PostalAddress"); addr != nil {
		p.Address = readUBLAddress(addr)
	}
	if scheme := party.SelectElement("PartyTaxScheme"); scheme != nil {
		p.VATID = childText(scheme, "CompanyID")
	}
	if legal := party.SelectElement("PartyLegalEntity"); legal != nil {
		p.Name = childText(legal, "RegistrationName")
		p.RegistrationID = childText(legal, "CompanyID")
	}
	if c := party.SelectElement("Contact"); c != nil {
		p.Contact = &model.Contact{
			Name:  childText(c, "Name"),
			Phone: childText(c, "Telephone"),
			Email: childText(c, "ElectronicMail"),
		}
	}
	return p
}

func readUBLPaymentMeans(pm *etree.Element) model.PaymentInstructions {
	pay := model.PaymentInstructions{}
	if code := childText(pm, "PaymentMeansCode"); code != "" {
		n, _ := strconv.Atoi(code)
		pay.MeansCode = codetables.PaymentMeansCode(n)
	}
	pay.RemittanceInfo = childText(pm, "PaymentID")
	if acc := pm.SelectElement("PayeeFinancialAccount"); acc != nil {
		ct := &model.CreditTransfer{
			IBAN:        childText(acc, "ID"),
			AccountName: childText(acc, "Name"),
		}
		if branch := acc.SelectElement("FinancialInstitutionBranch"); branch != nil {
			ct.BIC = childText(branch, "ID")
		}
		pay.CreditTransfer = ct
	}
	if card := pm.SelectElement("CardAccount"); card != nil {
		pay.CardPayment = &model.CardPayment{
			PANLastDigits: childText(card, "PrimaryAccountNumberID"),
			HolderName:    childText(card, "HolderName"),
		}
	}
	if mandate := pm.SelectElement("PaymentMandate"); mandate != nil {
		dd := &model.DirectDebit{MandateID: childText(mandate, "ID")}
		if acc := mandate.SelectElement("PayerFinancialAccount"); acc != nil {
			dd.DebitedIBAN = childText(acc, "ID")
		}
		pay.DirectDebit = dd
	}
	return pay
}

func readUBLAllowanceCharge(e *etree.Element) model.AllowanceCharge {
	ac := model.AllowanceCharge{
		IsCharge:   childText(e, "ChargeIndicator") == "true",
		ReasonCode: childText(e, "AllowanceChargeReasonCode"),
		Reason:     childText(e, "AllowanceChargeReason"),
		Amount:     mustParseAmount(childText(e, "Amount")),
	}
	if pct := childText(e, "MultiplierFactorNumeric"); pct != "" {
		v := mustParseAmount(pct)
		ac.Percentage = &v
	}
	if base := childText(e, "BaseAmount"); base != "" {
		v := mustParseAmount(base)
		ac.BaseAmount = &v
	}
	if cat := e.SelectElement("TaxCategory"); cat != nil {
		ac.TaxCategory = codetables.TaxCategory(childText(cat, "ID"))
		ac.TaxRate = mustParseAmount(childText(cat, "Percent"))
	}
	return ac
}

func readUBLLine(e *etree.Element) model.LineItem {
	l := model.LineItem{ID: childText(e, "ID")}
	if qty := e.SelectElement("InvoicedQuantity"); qty != nil {
		l.Quantity = mustParseAmount(strings.TrimSpace(qty.Text()))
		l.UnitCode = qty.SelectAttrValue("unitCode", "")
	}
	l.LineNet = mustParseAmount(childText(e, "LineExtensionAmount"))
	if period := e.SelectElement("InvoicePeriod"); period != nil {
		l.Period = &model.Period{Start: childText(period, "StartDate"), End: childText(period, "EndDate")}
	}
	for _, ace := range e.SelectElements("AllowanceCharge") {
		ac := readUBLAllowanceCharge(ace)
		if ac.IsCharge {
			l.Charges = append(l.Charges, ac)
		} else {
			l.Allowances = append(l.Allowances, ac)
		}
	}
	if item := e.SelectElement("Item"); item != nil {
		l.Description = childText(item, "Description")
		l.ItemName = childText(item, "Name")
		if origin := item.SelectElement("OriginCountry"); origin != nil {
			l.OriginCountry = childText(origin, "IdentificationCode")
		}
		if cat := item.SelectElement("ClassifiedTaxCategory"); cat != nil {
			l.TaxCategory = codetables.TaxCategory(childText(cat, "ID"))
			l.TaxRate = mustParseAmount(childText(cat, "Percent"))
		}
		if sid := item.SelectElement("StandardItemIdentification"); sid != nil {
			l.StandardItemID = childText(sid, "ID")
		}
		if sid := item.SelectElement("SellersItemIdentification"); sid != nil {
			l.SellerItemID = childText(sid, "ID")
		}
	}
	if price := e.SelectElement("Price"); price != nil {
		l.UnitPrice = mustParseAmount(childText(price, "PriceAmount"))
		if bq := price.SelectElement("BaseQuantity"); bq != nil {
			v := mustParseAmount(strings.TrimSpace(bq.Text()))
			l.BaseQuantity = &v
			l.BaseQuantityUnit = bq.SelectAttrValue("unitCode", "")
		}
	}
	return l
}

func readUBLAttachment(e *etree.Element) model.DocumentAttachment {
	att := model.DocumentAttachment{
		ID:          childText(e, "ID"),
		Description: childText(e, "DocumentDescription"),
	}
	if obj := e.SelectElement("Attachment"); obj != nil {
		if bin := obj.SelectElement("EmbeddedDocumentBinaryObject"); bin != nil {
			att.MimeType = bin.SelectAttrValue("mimeCode", "")
			att.Filename = bin.SelectAttrValue("filename", "")
			att.Embedded = decodeBase64(strings.TrimSpace(bin.Text()))
		}
		if ext := obj.SelectElement("ExternalReference"); ext != nil {
			att.URI = childText(ext, "URI")
		}
	}
	return att
}
