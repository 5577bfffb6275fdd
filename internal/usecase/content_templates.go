package usecase

import (
	"strings"

	"github.com/softwarescout/backend/internal/domain"
)

// verticalPhrasing holds the sentence templates of one curated category.
// Categories without their own set use the chatbot phrasing.
type verticalPhrasing struct {
	intros      func(cat domain.CategoryProfile, ind domain.IndustryProfile) []string
	buyingGuide func(ind domain.IndustryProfile) []string
	useCases    func(tool domain.ToolProfile, ind domain.IndustryProfile) []string
	faq         func(ind domain.IndustryProfile, tools []domain.ToolProfile) []domain.FAQ
}

const fallbackVertical = "ai-chatbots"

var phrasings = map[string]verticalPhrasing{
	"ai-chatbots": {
		intros:      chatbotIntros,
		buyingGuide: chatbotBuyingGuide,
		useCases:    chatbotUseCases,
		faq:         chatbotFAQ,
	},
	"ai-writing": {
		intros:      writingIntros,
		buyingGuide: writingBuyingGuide,
		useCases:    writingUseCases,
		faq:         writingFAQ,
	},
	"ai-code": {
		intros:      codeIntros,
		buyingGuide: codeBuyingGuide,
		useCases:    codeUseCases,
		faq:         codeFAQ,
	},
}

// builderTools are the code tools that generate whole applications rather
// than assist inside an editor.
var builderTools = map[string]bool{"v0": true, "bolt": true, "devin": true}

func phrasingFor(categorySlug string) verticalPhrasing {
	if p, ok := phrasings[categorySlug]; ok {
		return p
	}
	return phrasings[fallbackVertical]
}

// at returns list[i], or fallback when the list is too short.
func at(list []string, i int, fallback string) string {
	if i >= 0 && i < len(list) && list[i] != "" {
		return list[i]
	}
	return fallback
}

var lower = strings.ToLower

// freeToolNames lists the names of tools with a free option, at most limit
// (limit <= 0 means all).
func freeToolNames(tools []domain.ToolProfile, limit int) []string {
	var names []string
	for _, t := range tools {
		if !t.FreeOption {
			continue
		}
		names = append(names, t.Name)
		if limit > 0 && len(names) == limit {
			break
		}
	}
	return names
}

// --- chatbots ---

func chatbotIntros(_ domain.CategoryProfile, ind domain.IndustryProfile) []string {
	name := lower(ind.Name)
	pain1 := ind.PainPoints[0]
	pain2 := ind.PainPoints[1]
	workflow := ind.Workflows[0]

	return []string{
		"Running a " + name + " business means " + pain1 + " while also " + pain2 + ". AI chatbots and assistants can transform how you handle " + workflow + " — giving you instant support for everything from drafting client communications to answering common questions. Whether you're a " + ind.BusinessSize + " operation or scaling up, the right AI assistant saves hours every week and helps you deliver a more professional experience to " + ind.CustomerType + ".",
		ind.Name + " professionals know the daily grind of " + pain1 + ". Add " + pain2 + " to your plate, and there's barely time for the actual work. AI chatbots have evolved beyond simple Q&A — today's assistants help with " + workflow + ", generate ideas, and even handle research. For " + name + " businesses serving " + ind.CustomerType + ", these tools are becoming essential for staying competitive.",
		"In the " + name + " industry, " + pain1 + " is a constant challenge. AI chatbots and assistants offer a practical solution by helping with " + workflow + " and streamlining how you communicate with " + ind.CustomerType + ". These tools can draft responses, brainstorm solutions, and handle routine tasks — freeing you to focus on what matters most in your business.",
	}
}

func chatbotBuyingGuide(ind domain.IndustryProfile) []string {
	name := lower(ind.Name)

	var integrations string
	switch ind.TechLevel {
	case domain.TechLevelHigh:
		integrations = "project management platform, email client, and document management system"
	case domain.TechLevelMedium:
		integrations = "scheduling software, email, and social media accounts"
	default:
		integrations = "phone, text messaging, and basic business tools"
	}

	var workplace string
	switch ind.Type {
	case "home-service", "service":
		workplace = "on job sites and in the field"
	case "food":
		workplace = "in the kitchen or on the go"
	default:
		workplace = "outside a traditional office"
	}

	return []string{
		"When evaluating AI chatbots for your " + name + " business, start with your most time-consuming communication tasks. If you spend hours each week on " + ind.Workflows[0] + ", look for an AI assistant that excels at drafting, summarizing, and organizing that type of content. The best tool for your " + name + " business is the one that addresses your specific pain point of " + ind.PainPoints[0] + ".",
		"Integration matters more than raw AI power. A chatbot that connects with the tools you already use — whether that's your " + integrations + " — will deliver more value than a technically superior bot that sits in its own silo. For " + name + " businesses, also consider whether the tool works well on mobile, since much of your work happens " + workplace + ".",
		"Pricing varies wildly in the AI chatbot space, from completely free tools to enterprise subscriptions exceeding $30 per user per month. As a " + ind.BusinessSize + " operation serving " + ind.CustomerType + ", you likely don't need the most expensive option. Many of the best AI chatbots offer generous free tiers that handle basic tasks like brainstorming, drafting messages, and answering questions — start there and upgrade only when you hit real limitations.",
		"One common mistake " + name + " professionals make is trying to use AI chatbots for everything at once. Instead, start with one specific workflow — like " + at(ind.Workflows, 1, ind.Workflows[0]) + " — and master it before expanding. This approach lets you build confidence with the tool and develop prompts that work specifically for " + name + " scenarios. Also, always review AI-generated content before sending it to " + ind.CustomerType + ", especially for anything involving " + ind.KeyTerms[0] + " or " + ind.KeyTerms[1] + ".",
	}
}

func chatbotUseCases(_ domain.ToolProfile, ind domain.IndustryProfile) []string {
	return []string{
		"Quickly draft " + ind.ContentNeeds[0] + " without starting from scratch",
		"Answer common questions from " + ind.CustomerType + " about " + ind.KeyTerms[0] + " and " + ind.KeyTerms[1],
		"Brainstorm ideas for " + at(ind.ContentNeeds, 1, ind.ContentNeeds[0]) + " and marketing content",
		"Research industry trends related to " + at(ind.KeyTerms, 2, ind.KeyTerms[0]) + " and best practices",
	}
}

func chatbotFAQ(ind domain.IndustryProfile, ts []domain.ToolProfile) []domain.FAQ {
	name := lower(ind.Name)
	first, second := ts[0], ts[1]

	free := strings.Join(freeToolNames(ts, 3), ", ")
	if free == "" {
		free = "Several of these tools"
	}

	var safety string
	switch ind.Type {
	case "healthcare":
		safety = "For healthcare-related businesses, be especially mindful of HIPAA compliance and never input protected health information into AI tools that don't guarantee HIPAA compliance."
	case "professional":
		safety = "For professional services, review all content for accuracy and ensure it meets your industry's ethical standards before sharing with clients."
	default:
		safety = "For " + name + " businesses, the main risk is inaccuracy — always verify facts, prices, and technical details before sharing with clients."
	}

	return []domain.FAQ{
		{
			Question: "What is the best AI chatbot for " + name + "?",
			Answer:   "Based on our analysis, " + first.Name + " is the top pick for most " + name + " businesses because of its " + lower(at(first.Strengths, 0, "feature set")) + ". However, " + second.Name + " is a strong alternative if " + at(second.BestFor, 0, "everyday workflows") + " is more important to your specific workflow. The best choice depends on whether you prioritize " + at(first.BestFor, 0, "everyday workflows") + " or " + at(second.BestFor, 0, "everyday workflows") + ".",
		},
		{
			Question: "Are there free AI chatbots that work well for " + name + "?",
			Answer:   "Yes, several excellent AI chatbots offer free tiers suitable for the " + name + " industry. " + free + " all offer free access that covers basic needs like drafting communications, brainstorming, and answering questions. Most " + ind.BusinessSize + " operations can get significant value from free tiers before needing to upgrade.",
		},
		{
			Question: "How can AI chatbots help with " + ind.Workflows[0] + "?",
			Answer:   "AI chatbots can streamline " + ind.Workflows[0] + " by drafting templates, generating responses to common questions from " + ind.CustomerType + ", and helping organize your workflow. For example, you can ask an AI assistant to draft a " + ind.ContentNeeds[0] + " or create a checklist for " + at(ind.Workflows, 1, ind.Workflows[0]) + ". This typically saves 30-60 minutes per day for busy " + name + " professionals.",
		},
		{
			Question: "Do I need technical skills to use AI chatbots in my " + name + " business?",
			Answer:   "No technical skills are required. Modern AI chatbots are designed to be conversational — you simply type what you need in plain English. For " + name + " businesses, this means you can ask \"draft an email about " + ind.KeyTerms[0] + "\" or \"create a template for " + ind.ContentNeeds[0] + "\" and get useful results immediately. The learning curve is minimal.",
		},
		{
			Question: "Can AI chatbots handle " + name + "-specific terminology like " + ind.KeyTerms[0] + " and " + ind.KeyTerms[1] + "?",
			Answer:   "Most modern AI chatbots have been trained on " + name + " industry content and understand terms like " + ind.KeyTerms[0] + ", " + ind.KeyTerms[1] + ", and " + at(ind.KeyTerms, 2, ind.KeyTerms[0]) + ". However, always review AI-generated content for accuracy, especially when communicating with " + ind.CustomerType + " about technical topics. The more context you provide in your prompts, the more accurate the results.",
		},
		{
			Question: "How much time can AI chatbots save my " + name + " business each week?",
			Answer:   "Most " + name + " business owners report saving 3-8 hours per week by using AI chatbots for tasks like " + ind.Workflows[0] + " and drafting " + ind.ContentNeeds[0] + ". The biggest time savings come from repetitive tasks and communications with " + ind.CustomerType + ". Start by using the AI for your most time-consuming writing task and measure the difference.",
		},
		{
			Question: "Is it safe to use AI chatbots for " + name + " client communications?",
			Answer:   "AI chatbots are safe for drafting communications, but you should always review content before sending it to " + ind.CustomerType + ". " + safety,
		},
	}
}

// --- writing ---

func writingIntros(_ domain.CategoryProfile, ind domain.IndustryProfile) []string {
	name := lower(ind.Name)
	pain1 := ind.PainPoints[0]
	cn0 := ind.ContentNeeds[0]
	cn1 := ind.ContentNeeds[1]
	cn2 := at(ind.ContentNeeds, 2, cn0)

	return []string{
		"For " + name + " businesses, content is king — but " + pain1 + " leaves little time for writing compelling " + cn0 + " and " + cn1 + ". AI writing tools can help you produce professional content in minutes instead of hours, from " + cn0 + " to " + cn2 + ". Whether you're a " + ind.BusinessSize + " operation, these tools help you compete with larger companies that have dedicated marketing teams.",
		ind.Name + " businesses face a unique content challenge: " + pain1 + " while needing to consistently produce " + cn0 + " and " + cn1 + ". AI writing tools solve this by generating industry-specific content that speaks directly to " + ind.CustomerType + ". The best tools understand your tone, your terminology, and what resonates with your audience.",
		"Content creation is critical for " + name + " businesses trying to attract and retain " + ind.CustomerType + ". But when you're focused on " + ind.Workflows[0] + ", who has time to write? AI writing tools can draft " + cn0 + ", create " + cn1 + ", and help with " + cn2 + " — all while maintaining your brand voice and industry expertise.",
	}
}

func writingBuyingGuide(ind domain.IndustryProfile) []string {
	name := lower(ind.Name)
	cn0 := ind.ContentNeeds[0]
	cn1 := ind.ContentNeeds[1]

	return []string{
		"Choosing the right AI writing tool for your " + name + " business starts with understanding what kind of content you need most. If " + cn0 + " is your primary bottleneck, prioritize tools with strong " + cn0 + " templates or capabilities. Many " + name + " businesses waste money on enterprise writing platforms when a focused tool that excels at " + cn1 + " would serve them better.",
		"Look for AI writing tools that understand " + name + " industry terminology and tone. When you're writing about " + ind.KeyTerms[0] + " and " + ind.KeyTerms[1] + ", generic AI tools often miss the mark. The best options either let you train on your brand voice or come with industry-aware templates. For " + name + " businesses communicating with " + ind.CustomerType + ", tone matters as much as accuracy.",
		"Consider how the tool fits into your existing workflow. If you're currently struggling with " + ind.PainPoints[0] + ", you need a tool that integrates seamlessly — not one that adds another step to your process. The best AI writing tools for " + name + " businesses let you generate content directly where you work, whether that's in your browser, email client, or content management system.",
		"Budget is a real concern for " + ind.BusinessSize + " operations. AI writing tools range from free tiers with limited output to premium plans costing $50-100 per month. Calculate your actual content volume — how many " + cn0 + " and " + cn1 + " you produce weekly — and match that to the right pricing tier. Many " + name + " businesses find that a mid-tier plan covers their needs without breaking the bank.",
		"Finally, never publish AI-generated content without review. While these tools are remarkably capable, they can occasionally produce inaccurate information about " + ind.KeyTerms[0] + " or use terminology incorrectly. Use AI writing tools as a first draft generator and editing partner, not a replacement for your industry expertise. Your knowledge of " + name + " is what makes the content genuinely valuable to " + ind.CustomerType + ".",
	}
}

func writingUseCases(_ domain.ToolProfile, ind domain.IndustryProfile) []string {
	return []string{
		"Generate professional " + ind.ContentNeeds[0] + " in minutes instead of hours",
		"Create " + ind.ContentNeeds[1] + " that speak directly to " + ind.CustomerType,
		"Draft " + at(ind.ContentNeeds, 2, "marketing content") + " with industry-appropriate tone",
		"Produce consistent " + lower(ind.Name) + "-specific content at scale",
	}
}

func writingFAQ(ind domain.IndustryProfile, ts []domain.ToolProfile) []domain.FAQ {
	name := lower(ind.Name)
	first, second := ts[0], ts[1]

	free := strings.Join(freeToolNames(ts, 0), ", ")
	if free == "" {
		free = "limited tiers"
	}

	return []domain.FAQ{
		{
			Question: "What is the best AI writing tool for " + name + "?",
			Answer:   "For most " + name + " businesses, " + first.Name + " offers the best combination of features and value. It excels at " + at(first.BestFor, 0, "everyday workflows") + " which is critical for " + name + " content. If you primarily need " + at(second.BestFor, 0, "everyday workflows") + ", " + second.Name + " may be a better fit. Consider your primary content type — " + ind.ContentNeeds[0] + " vs " + ind.ContentNeeds[1] + " — when making your choice.",
		},
		{
			Question: "Can AI writing tools create " + ind.ContentNeeds[0] + " for the " + name + " industry?",
			Answer:   "Yes, modern AI writing tools are quite capable of generating " + ind.ContentNeeds[0] + " for " + name + " businesses. Tools like " + first.Name + " and " + second.Name + " can produce first drafts in seconds that would normally take 30-60 minutes to write. You'll still want to review and customize the output to match your specific " + name + " expertise and brand voice.",
		},
		{
			Question: "How much do AI writing tools cost for a " + name + " business?",
			Answer:   "AI writing tools range from free (" + free + ") to $50-100/month for premium plans. Most " + ind.BusinessSize + " operations find good value in the $10-50/month range. Calculate how many hours you currently spend on " + ind.ContentNeeds[0] + " and " + ind.ContentNeeds[1] + " — if an AI tool saves you even 5 hours per month, it pays for itself quickly.",
		},
		{
			Question: "Will AI-written content sound authentic for my " + name + " business?",
			Answer:   "The best AI writing tools allow you to customize tone and style to match your brand. For " + name + " content, provide the AI with examples of your existing writing, key terminology like " + ind.KeyTerms[0] + " and " + ind.KeyTerms[1] + ", and specific details about your " + ind.CustomerType + ". The output improves significantly when you give industry context rather than generic prompts.",
		},
		{
			Question: "Can AI writing tools help with SEO for " + name + "?",
			Answer:   "Several AI writing tools include SEO features specifically designed to help " + name + " businesses rank higher in local search. Tools like KoalaWriter and Byword analyze search intent and generate content optimized for keywords that " + ind.CustomerType + " actually search for. This is particularly valuable for local " + name + " businesses trying to attract nearby customers.",
		},
		{
			Question: "How do I get the best results from AI writing tools for " + name + " content?",
			Answer:   "The key is providing detailed prompts with " + name + " context. Instead of \"write a blog post,\" try \"write a blog post about " + ind.KeyTerms[0] + " tips for " + ind.CustomerType + ", mentioning " + ind.KeyTerms[1] + " and " + at(ind.KeyTerms, 2, ind.KeyTerms[0]) + ".\" Include your target audience, desired tone, and specific points to cover. The more industry-specific your prompt, the better the output.",
		},
	}
}

// --- code ---

func codeIntros(_ domain.CategoryProfile, ind domain.IndustryProfile) []string {
	name := lower(ind.Name)
	pain1 := ind.PainPoints[0]
	cn0 := ind.ContentNeeds[0]

	return []string{
		ind.Name + " businesses increasingly need custom digital tools — from booking systems to customer portals — but hiring developers is expensive and time-consuming. AI code assistants are changing the game by letting " + ind.BusinessSize + " operations build professional websites, web apps, and internal tools without a computer science degree. Whether you need a simple landing page or a full " + cn0 + " system, these tools can get you there.",
		"In today's digital-first world, " + name + " businesses that lack a strong online presence risk losing " + ind.CustomerType + " to competitors. AI code assistants make it possible to build custom websites, booking platforms, and business tools without hiring a developer. For " + name + " professionals dealing with " + pain1 + ", these tools offer a way to solve technology problems on your own terms.",
		"Every " + name + " business needs digital tools — a professional website, online booking, customer management — but " + pain1 + " makes it hard to prioritize technology investments. AI code assistants now let non-technical business owners build exactly what they need. From simple portfolio sites to complex " + cn0 + " systems, these tools handle the coding while you focus on serving " + ind.CustomerType + ".",
	}
}

func codeBuyingGuide(ind domain.IndustryProfile) []string {
	name := lower(ind.Name)

	var complexApp string
	switch ind.Type {
	case "healthcare":
		complexApp = "patient portal"
	case "food":
		complexApp = "menu and ordering system"
	case "professional":
		complexApp = "client dashboard"
	case "education":
		complexApp = "student management portal"
	default:
		complexApp = "booking and scheduling system"
	}

	return []string{
		"For " + name + " businesses, the right AI code assistant depends on what you're trying to build. If you need a professional website or landing page, look for AI builders that generate polished, responsive designs from text descriptions. If you need something more complex — like a " + complexApp + " — you'll want a tool that can handle both frontend design and backend logic.",
		"Don't be intimidated by the word \"code.\" The best AI code tools for " + name + " businesses are designed for non-technical users. You describe what you want in plain English — \"build a booking page for my " + name + " business with a calendar and contact form\" — and the AI generates the working application. No programming knowledge required. The tools that rank highest for " + name + " are those with the lowest learning curve and most intuitive interfaces.",
		"Pricing for AI code assistants ranges from free tiers for basic projects to $500+/month for autonomous AI developers. As a " + ind.BusinessSize + " operation, you'll likely find the most value in the $0-40/month range, which gives you access to website builders, simple web apps, and basic automation tools. Consider what you're currently paying for website hosting, third-party booking tools, or developer freelancers — an AI code assistant often replaces or reduces those costs.",
		"When evaluating tools, consider the ongoing maintenance factor. A website or app built with an AI tool still needs updates, hosting, and occasional fixes. The best platforms for " + name + " businesses include deployment and hosting, so you're not left managing servers. Also look for tools that generate clean, standard code — this means if you eventually hire a developer, they can pick up where the AI left off.",
		"Start small: build a single landing page or a simple booking form before committing to building your entire online presence with AI tools. This lets you evaluate the quality of output, understand the tool's limitations, and build confidence. For " + name + " professionals who are used to " + ind.Workflows[0] + ", the transition to building your own digital tools can feel empowering and save thousands in development costs annually.",
	}
}

func codeUseCases(tool domain.ToolProfile, ind domain.IndustryProfile) []string {
	name := lower(ind.Name)

	if builderTools[tool.Slug] {
		portal := "client"
		if ind.Type == "healthcare" {
			portal = "patient"
		}
		return []string{
			"Build a professional " + name + " website with online booking",
			"Create a customer " + portal + " portal for " + ind.CustomerType,
			"Design landing pages for " + ind.ContentNeeds[0] + " promotions",
			"Develop internal tools for " + at(ind.Workflows, 1, ind.Workflows[0]),
		}
	}

	return []string{
		"Customize and extend your " + name + " business website",
		"Debug and improve existing web application code",
		"Build automation scripts for " + ind.Workflows[0],
		"Generate documentation for your " + name + " tech stack",
	}
}

func codeFAQ(ind domain.IndustryProfile, ts []domain.ToolProfile) []domain.FAQ {
	name := lower(ind.Name)
	first, second := ts[0], ts[1]
	third := second
	if len(ts) > 2 {
		third = ts[2]
	}

	var appFeatures string
	switch ind.Type {
	case "healthcare":
		appFeatures = "patient management"
	case "food":
		appFeatures = "ordering and inventory"
	default:
		appFeatures = "customer management"
	}

	return []domain.FAQ{
		{
			Question: "Can I build a " + name + " website without knowing how to code?",
			Answer:   "Absolutely. AI code assistants like " + first.Name + " and " + second.Name + " let you describe what you want in plain English, and they generate a working website. You can say \"build a " + name + " website with a booking page, services list, and contact form\" and get a professional result. No coding experience needed — the AI handles all the technical details.",
		},
		{
			Question: "What's the best AI tool for building a " + name + " business app?",
			Answer:   "For most " + name + " businesses, " + first.Name + " is the best starting point because of its " + lower(at(first.Strengths, 0, "feature set")) + ". If you need a more complex application with " + appFeatures + " features, " + second.Name + " offers more full-stack capabilities. Start simple and add features as your needs grow.",
		},
		{
			Question: "How much does it cost to build a " + name + " website with AI tools?",
			Answer:   "Many AI code tools offer free tiers that are sufficient for a basic " + name + " website. Premium plans typically run $20-40/month, which is significantly cheaper than hiring a web developer ($2,000-10,000+ for a custom site). For " + ind.BusinessSize + " operations, the free or basic paid tier usually covers your needs for a professional online presence.",
		},
		{
			Question: "Can AI code tools build a booking system for my " + name + " business?",
			Answer:   "Yes, building a booking or scheduling system is one of the most common use cases for AI code tools in the " + name + " industry. Tools like " + first.Name + " and " + second.Name + " can create a system where " + ind.CustomerType + " book appointments, select services, and receive confirmations — all from a simple text description of what you need.",
		},
		{
			Question: "Do I need to maintain the website after the AI builds it?",
			Answer:   "Websites built with AI tools do need occasional updates, but much less maintenance than traditionally coded sites. Most AI platforms include hosting and handle security updates automatically. For " + name + " businesses, you'll mainly need to update content like " + ind.ContentNeeds[0] + " and " + ind.ContentNeeds[1] + ", which the AI tools also make easy to modify.",
		},
		{
			Question: "Are AI-built websites professional enough for a " + name + " business?",
			Answer:   "Modern AI code tools produce surprisingly professional results. " + first.Name + " generates websites with clean design, mobile responsiveness, and fast loading times — the same qualities " + ind.CustomerType + " expect. Many " + name + " businesses have switched to AI-built sites that look better than their previous professionally designed ones, at a fraction of the cost.",
		},
		{
			Question: "Can I add " + name + "-specific features to an AI-built website?",
			Answer:   "Yes. The best AI code tools let you iteratively add features by describing what you need. For a " + name + " business, you might request a " + ind.ContentNeeds[0] + " section, " + ind.KeyTerms[0] + " information pages, or a " + ind.CustomerType + " review gallery. The AI builds each feature and integrates it with your existing site. More complex features may require a more capable tool like " + second.Name + " or " + third.Name + ".",
		},
	}
}
