package zugferd

import (
	"strings"

	"github.com/rezonia/rechnung/internal/model"
	"github.com/rezonia/rechnung/internal/pdf/cos"
)

// ExtractFromPDF locates and returns the Factur-X/ZUGFeRD XML embedded in a
// PDF, searching the Names/EmbeddedFiles tree first and the AF array as a
// fallback, the same two strategies in the same order the embedder's
// counterpart in the original implementation used.
func ExtractFromPDF(pdfBytes []byte) ([]byte, error) {
	data, err := cos.FindEmbeddedFile(pdfBytes, isFacturXFilename)
	if err != nil {
		return nil, model.ErrNoEmbeddedFile()
	}
	return data, nil
}

func isFacturXFilename(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "factur-x") || strings.Contains(lower, "zugferd")
}
