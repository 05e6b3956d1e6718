/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: mock.go
Description: Offline oracle. Returns a canned, compilable parser for the
16-byte four-count header shape so the generate/compile/run/score loop
stays testable without network access or credentials. Tests override the
response or inject errors through the exported fields.
*/

package oracle

import "context"

// mockParserSource is a complete program reading a four-uint32 header.
// It compiles as-is and scores perfectly on the baseline mesh corpus.
const mockParserSource = `#include <stdio.h>
#include <stdint.h>

int main(int argc, char **argv) {
    if (argc < 2) {
        fprintf(stderr, "usage: %s <file>\n", argv[0]);
        return 1;
    }
    FILE *f = fopen(argv[1], "rb");
    if (!f) {
        fprintf(stderr, "failed to open %s\n", argv[1]);
        return 1;
    }
    uint32_t header[4];
    if (fread(header, sizeof(uint32_t), 4, f) != 4) {
        fprintf(stderr, "short read\n");
        fclose(f);
        return 1;
    }
    fclose(f);
    printf("Magic: %u\n", header[0]);
    printf("Version: %u\n", header[1]);
    printf("Vertices: %u\n", header[2]);
    printf("Triangles: %u\n", header[3]);
    return 0;
}
`

// MockOracle is the deterministic stand-in used offline and in tests
type MockOracle struct {
	Response string // overrides the canned parser when set
	Err      error  // simulates an oracle failure when set
}

// NewMockOracle creates a mock returning the canned header parser
func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

// Name identifies the mock in logs and attempt records
func (m *MockOracle) Name() string {
	return "mock"
}

// ProposeParser returns the configured response or the canned parser
func (m *MockOracle) ProposeParser(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return mockParserSource, nil
}
