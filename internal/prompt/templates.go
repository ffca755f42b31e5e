package prompt

// Vietnamese templates are the default; the ledgers this tool targets use
// Vietnamese remarks.
const categorizeVI = `Bạn là một AI có nhiệm vụ phân loại giao dịch tài chính vào các danh mục phù hợp. Danh mục có sẵn là: {{join .Categories ", "}}.

Hãy phân loại các giao dịch sau vào một trong các danh mục trên:
{{range .Transactions}}{{.}}
{{end}}
Trả lời dưới dạng danh sách JSON gồm các từ điển chứa 'transaction' và 'category'.{{if .Fallback}} Nếu không có danh mục nào phù hợp, hãy dùng "{{.Fallback}}".{{end}}`

const disambiguateVI = `Bạn là một AI có nhiệm vụ giải thích các từ viết tắt trong giao dịch tài chính. Dưới đây là ngữ cảnh:

Giao dịch: "{{.Context}}"

Từ viết tắt "{{.Token}}" có thể mang nghĩa nào, các từ sau có thể là gợi ý: {{join .Candidates ", "}}.

Nghĩa nào phù hợp nhất? Hãy trả lời chỉ bằng từ đúng nhất.`

const categorizeEN = `You are an AI trained to classify financial transactions into categories. The available categories are: {{join .Categories ", "}}.

Classify the following transactions into one of the categories:
{{range .Transactions}}{{.}}
{{end}}
Return the response as a JSON list of dictionaries with 'transaction' and 'category'.{{if .Fallback}} If no category fits, use "{{.Fallback}}".{{end}}`

const disambiguateEN = `You are an AI that resolves abbreviations in financial transactions. Given the context:

Transaction: "{{.Context}}"

The abbreviation "{{.Token}}" could mean one of the following: {{join .Candidates ", "}}.

Which meaning is most appropriate? Reply with only the best matching word.`
