package service

// Canned replies shown to the user, keyed by language. Hinglish speakers get
// the English text; any unrecognized language already fell back to "en"
// before lookup.

var escalationReplies = map[string]string{
	"en": "I'm sorry, I don't have a precise answer for that right now. Your query has been forwarded to our team for review.",
	"hi": "क्षमा करें, मेरे पास अभी इसका सटीक उत्तर नहीं है। आपका प्रश्न समीक्षा के लिए हमारी टीम को भेज दिया गया है।",
}

var upstreamErrorReplies = map[string]string{
	"en": "The service is temporarily unavailable. Please try again in a moment.",
	"hi": "सेवा अस्थायी रूप से अनुपलब्ध है। कृपया थोड़ी देर बाद पुनः प्रयास करें।",
}

func escalationReply(language string) string {
	if reply, ok := escalationReplies[language]; ok {
		return reply
	}
	return escalationReplies["en"]
}

func upstreamErrorReply(language string) string {
	if reply, ok := upstreamErrorReplies[language]; ok {
		return reply
	}
	return upstreamErrorReplies["en"]
}
