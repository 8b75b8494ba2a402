package legal

import "fmt"

func noticePrompt(req NoticeRequest) string {
	return fmt.Sprintf(`You are drafting an official Indian legal notice. Generate a formal legal notice following standard Indian legal format with these details:

RECIPIENT: %s
ADDRESS: %s
SUBJECT: %s
NOTICE TYPE: %s
JURISDICTION: %s
CASE DETAILS: %s
SENDER: %s

Format this as a professional Indian legal document with:
1. Current date
2. Clear subject line
3. Formal greeting
4. Case details with relevant Indian legal statutes
5. Clear demands or reliefs sought
6. Timeline for compliance or response (typically 15-30 days)
7. Consequences of non-compliance
8. Professional signature block

THE COMPLETE NOTICE TEXT:`,
		req.RecipientName, req.RecipientAddress, req.Subject, req.NoticeType,
		req.Jurisdiction, req.CaseDetails, req.SenderName)
}

func templateNotice(req NoticeRequest) string {
	return fmt.Sprintf(`LEGAL NOTICE

DATE: [Current Date]

TO: %[1]s
%[2]s

RE: %[3]s

Dear %[1]s,

This is to formally notify you that this letter constitutes a legal notice under the laws of %[4]s, regarding %[3]s.

%[5]s

You are hereby requested to respond to this notice and comply with the above demands within 15 days of receipt, failing which I will be constrained to initiate appropriate legal proceedings against you, including but not limited to civil and/or criminal proceedings as applicable, without any further notice.

This notice is being issued without prejudice to my other legal rights and remedies, which are expressly reserved.

Sincerely,

%[6]s`,
		req.RecipientName, req.RecipientAddress, req.Subject, req.Jurisdiction, req.CaseDetails, req.SenderName)
}

func roadmapPrompt(req RoadmapRequest) string {
	return fmt.Sprintf(`Create a detailed Indian legal roadmap for handling '%[1]s' in %[2]s.

This roadmap should:
- Follow Indian legal procedures and systems
- Include specific references to relevant Indian laws, courts, and authorities
- Provide practical step-by-step guidance that a person can follow
- Cover all stages from initial assessment to resolution
- Include approximate timelines based on %[3]s process
- Mention documentation requirements at each stage
- Address common challenges and how to overcome them
- Include contact information types for relevant authorities
- Specify when to seek professional legal help

Format the response as a clear, numbered list of concrete steps.

THE ROADMAP STEPS:`, req.IssueType, req.Jurisdiction, req.Timeline)
}

func fallbackSteps(req RoadmapRequest) []string {
	return []string{
		fmt.Sprintf("Step 1: Initial assessment of your %s situation under Indian law", req.IssueType),
		fmt.Sprintf("Step 2: Gather necessary documentation including Aadhaar card, PAN card, and relevant evidence for %s", req.IssueType),
		fmt.Sprintf("Step 3: Consult with an advocate specializing in %s matters in %s", req.IssueType, req.Jurisdiction),
		"Step 4: Draft and file appropriate petition/application with the relevant court or authority (District Court/High Court/National Commission as applicable)",
		"Step 5: Pay the required court fees and ensure proper filing as per Civil Procedure Code requirements",
		"Step 6: Attend hearings as scheduled and follow advocate's guidance",
		"Step 7: Monitor progress through the Indian judicial system and prepare for potential appeals if necessary",
		"Step 8: Follow the guidance of the legal professionals involved, respecting Indian law and court proceedings",
	}
}

func askPrompt(question string) string {
	return fmt.Sprintf(`You are KanoonSahayak, an expert Indian legal assistant trained in Indian law.

Respond as a knowledgeable Indian legal professional would when answering this question:

%s

Provide specific references to Indian laws, statutes, or precedents where relevant.
Be clear, precise, and practical in your response.
Structure your answer in easy-to-understand language while maintaining legal accuracy.

Legal response:`, question)
}
