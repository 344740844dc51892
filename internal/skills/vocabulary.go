package skills

// Technical lists programming languages, frameworks, platforms and tools.
var Technical = []string{
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Go", "Rust", "Scala",
	"HTML", "CSS", "React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask", "Spring", "ASP.NET", ".NET",
	"SQL", "NoSQL", "MongoDB", "MySQL", "PostgreSQL", "Oracle", "SQLite", "Redis", "Elasticsearch", "Kafka", "RabbitMQ",
	"AWS", "Azure", "GCP", "Google Cloud", "Heroku", "Firebase",
	"Docker", "Kubernetes", "Jenkins", "Git", "GitHub", "GitLab", "Terraform", "Ansible", "CI/CD", "Linux",
	"Machine Learning", "AI", "Data Science", "TensorFlow", "PyTorch", "Pandas", "NumPy", "SciPy",
	"Android", "iOS", "React Native", "Flutter", "Xamarin",
	"REST API", "GraphQL", "gRPC", "Microservices", "Serverless", "Blockchain", "IoT",
}

// Soft lists interpersonal and organisational skills.
var Soft = []string{
	"Communication", "Leadership", "Teamwork", "Problem Solving", "Critical Thinking",
	"Time Management", "Adaptability", "Flexibility", "Creativity", "Collaboration",
	"Interpersonal", "Organizational", "Analytical", "Attention to Detail", "Multitasking",
	"Decision Making", "Conflict Resolution", "Negotiation", "Presentation", "Customer Service",
	"Project Management", "Strategic Thinking", "Mentoring", "Coaching", "Emotional Intelligence",
}

// Industry lists domain terms across software, business, finance, healthcare, marketing and HR.
var Industry = []string{
	"Agile", "Scrum", "Kanban", "Waterfall", "SDLC", "TDD", "BDD", "MVP", "Sprint",
	"ROI", "KPI", "B2B", "B2C", "SaaS", "PaaS", "IaaS", "CRM", "ERP", "SEO",
	"P&L", "Balance Sheet", "Cash Flow", "GAAP", "Financial Analysis",
	"EMR", "EHR", "HIPAA", "Clinical", "Patient Care",
	"Digital Marketing", "Content Strategy", "Brand Management", "Market Research",
	"Talent Acquisition", "Performance Management", "Employee Relations",
}

// Vocabulary returns the full base vocabulary.
func Vocabulary() []string {
	out := make([]string, 0, len(Technical)+len(Soft)+len(Industry))
	out = append(out, Technical...)
	out = append(out, Soft...)
	out = append(out, Industry...)
	return out
}
