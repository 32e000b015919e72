package pipeline

import (
	"context"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/anthropic"
)

// mockAI routes CreateMessage through a configurable function.
type mockAI struct {
	createFn func(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
}

func (m *mockAI) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return m.createFn(ctx, req)
}

// textResponse wraps plain text in a message response.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

type mockCodeHost struct {
	org     string
	orgErr  error
	data    *model.CodeHostData
	dataErr error
}

func (m *mockCodeHost) ResolveOrg(context.Context, string, string) (string, error) {
	return m.org, m.orgErr
}

func (m *mockCodeHost) FetchOrgData(context.Context, string) (*model.CodeHostData, error) {
	return m.data, m.dataErr
}

type mockJobs struct {
	data model.HiringData
}

func (m *mockJobs) Scrape(context.Context, string, string) model.HiringData {
	return m.data
}

type mockTech struct {
	data     model.TechnographicData
	mentions []string
}

func (m *mockTech) Detect(context.Context, string, string) model.TechnographicData {
	return m.data
}

func (m *mockTech) TechFromJobText([]string) []string {
	return m.mentions
}

type mockMobile struct {
	data model.MobileAppData
}

func (m *mockMobile) Detect(string) model.MobileAppData {
	return m.data
}

type mockSocial struct {
	links model.SocialLinks
}

func (m *mockSocial) Extract(context.Context, string) model.SocialLinks {
	return m.links
}

type mockHeadcount struct {
	estimate model.HeadcountEstimate
}

func (m *mockHeadcount) EstimateEngineering(context.Context, string, string) model.HeadcountEstimate {
	return m.estimate
}
