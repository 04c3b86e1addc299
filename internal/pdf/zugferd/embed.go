package zugferd

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/rechnung/internal/model"
	"github.com/rezonia/rechnung/internal/pdf/cos"
	"github.com/rezonia/rechnung/internal/xmlcodec"
)

const ciiGuidelineID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"

// ToXML renders an invoice as CII XML for the given ZUGFeRD profile,
// substituting the profile-specific guideline URN for the one xmlcodec's
// CII encoder writes by default, and stripping line items entirely for the
// Minimum and BasicWl profiles, which carry only header and tax data.
func ToXML(inv *model.Invoice, profile Profile) ([]byte, error) {
	xml, err := xmlcodec.EncodeCII(inv)
	if err != nil {
		return nil, err
	}
	xml = []byte(strings.Replace(string(xml), ciiGuidelineID, profile.URN(), 1))

	if profile != Minimum && profile != BasicWl {
		return xml, nil
	}
	return stripCIILines(xml)
}

// stripCIILines removes every IncludedSupplyChainTradeLineItem element from
// a CII document, for profiles that carry no line items.
func stripCIILines(xml []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xml); err != nil {
		return nil, model.NewXMLSyntaxError("failed to reparse CII document for line stripping", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewXMLSyntaxError("empty CII document", nil)
	}
	txn := root.SelectElement("SupplyChainTradeTransaction")
	if txn == nil {
		return nil, model.NewXMLSyntaxError("missing SupplyChainTradeTransaction", nil)
	}
	for _, line := range txn.SelectElements("IncludedSupplyChainTradeLineItem") {
		txn.RemoveChild(line)
	}
	return doc.WriteToBytes()
}

// EmbedInPDF embeds Factur-X/ZUGFeRD XML into an existing PDF via an
// incremental update, adding the PDF/A-3 structures readers require: an
// embedded-file stream named factur-x.xml, XMP metadata declaring the
// Factur-X extension schema, an sRGB OutputIntent, and the MarkInfo
// tagged-PDF flag. The original PDF bytes are never modified in place.
func EmbedInPDF(pdfBytes []byte, xml []byte, profile Profile) ([]byte, error) {
	info, err := cos.Inspect(pdfBytes)
	if err != nil {
		return nil, model.NewPDFError(model.PDFMalformed, "failed to locate PDF catalog", err)
	}

	next := info.NextFree
	allocate := func() int {
		n := next
		next++
		return n
	}

	efStreamNum := allocate()
	filespecNum := allocate()
	efNameTreeNum := allocate()
	namesDictNum := allocate()
	metadataNum := allocate()
	iccStreamNum := allocate()
	outputIntentNum := allocate()

	var objects []cos.Object

	objects = append(objects, cos.Object{
		Ref: cos.Ref{Num: efStreamNum},
		Value: cos.Stream{
			Dict: cos.Dict{
				"Type":    cos.Name("EmbeddedFile"),
				"Subtype": cos.Name("text#2Fxml"),
			},
			Data: xml,
		},
	})

	objects = append(objects, cos.Object{
		Ref: cos.Ref{Num: filespecNum},
		Value: cos.Dict{
			"Type":           cos.Name("Filespec"),
			"F":              FacturXFilename,
			"UF":             FacturXFilename,
			"Desc":           "Factur-X XML invoice",
			"AFRelationship": cos.Name(profile.AFRelationship()),
			"EF": cos.Dict{
				"F":  cos.Ref{Num: efStreamNum},
				"UF": cos.Ref{Num: efStreamNum},
			},
		},
	})

	objects = append(objects, cos.Object{
		Ref: cos.Ref{Num: efNameTreeNum},
		Value: cos.Dict{
			"Names": cos.Array{FacturXFilename, cos.Ref{Num: filespecNum}},
		},
	})

	objects = append(objects, cos.Object{
		Ref: cos.Ref{Num: namesDictNum},
		Value: cos.Dict{
			"EmbeddedFiles": cos.Ref{Num: efNameTreeNum},
		},
	})

	objects = append(objects, cos.Object{
		Ref: cos.Ref{Num: metadataNum},
		Value: cos.Stream{
			Dict: cos.Dict{
				"Type":    cos.Name("Metadata"),
				"Subtype": cos.Name("XML"),
			},
			Data: buildXMP(profile),
		},
	})

	iccProfile := buildSRGBICCProfile()
	objects = append(objects, cos.Object{
		Ref: cos.Ref{Num: iccStreamNum},
		Value: cos.Stream{
			Dict: cos.Dict{"N": 3},
			Data: iccProfile,
		},
	})

	objects = append(objects, cos.Object{
		Ref: cos.Ref{Num: outputIntentNum},
		Value: cos.Dict{
			"Type":                      cos.Name("OutputIntent"),
			"S":                         cos.Name("GTS_PDFA1"),
			"OutputConditionIdentifier": "sRGB IEC61966-2.1",
			"RegistryName":              "http://www.color.org",
			"Info":                      "sRGB IEC61966-2.1",
			"DestOutputProfile":         cos.Ref{Num: iccStreamNum},
		},
	})

	catalogBody, _ := cos.FindObjectBody(pdfBytes, info.RootNum)
	existing := cos.ParseDictEntries(catalogBody)
	catalog := cos.Dict{}
	for k, v := range existing {
		catalog[k] = cos.Literal(v)
	}
	catalog["AF"] = cos.Array{cos.Ref{Num: filespecNum}}
	catalog["Names"] = cos.Ref{Num: namesDictNum}
	catalog["Metadata"] = cos.Ref{Num: metadataNum}
	catalog["OutputIntents"] = cos.Array{cos.Ref{Num: outputIntentNum}}
	catalog["MarkInfo"] = cos.Dict{"Marked": true}

	objects = append(objects, cos.Object{
		Ref:   cos.Ref{Num: info.RootNum, Gen: info.RootGen},
		Value: catalog,
	})

	return cos.AppendUpdate(pdfBytes, objects, info), nil
}
