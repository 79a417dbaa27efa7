package database

import "github.com/example/frasebot/pkg/models"

// seedCatalog is the built-in starter catalog: English/Portuguese
// sentence pairs in catalog order. The first entries double as the
// weekly and monthly sets, and three of them are the curated daily
// set.
var seedCatalog = []models.Phrase{
	{SourceText: "Good morning, how are you?", TargetText: "Bom dia, como você está?"},
	{SourceText: "Thank you for your help.", TargetText: "Obrigado pela sua ajuda."},
	{SourceText: "See you tomorrow!", TargetText: "Até amanhã!"},
	{SourceText: "My name is Ana.", TargetText: "Meu nome é Ana."},
	{SourceText: "Where is the train station?", TargetText: "Onde fica a estação de trem?"},
	{SourceText: "I would like a coffee, please.", TargetText: "Eu gostaria de um café, por favor."},
	{SourceText: "How much does this cost?", TargetText: "Quanto custa isso?"},
	{SourceText: "I don't understand.", TargetText: "Eu não entendo."},
	{SourceText: "Could you speak more slowly?", TargetText: "Você poderia falar mais devagar?"},
	{SourceText: "The weather is beautiful today.", TargetText: "O tempo está lindo hoje."},
	{SourceText: "I am learning Portuguese.", TargetText: "Estou aprendendo português."},
	{SourceText: "What time is it?", TargetText: "Que horas são?"},
	{SourceText: "I live in a small city.", TargetText: "Eu moro em uma cidade pequena."},
	{SourceText: "Can you help me, please?", TargetText: "Você pode me ajudar, por favor?"},
	{SourceText: "The food was delicious.", TargetText: "A comida estava deliciosa."},
	{SourceText: "I have two brothers and one sister.", TargetText: "Eu tenho dois irmãos e uma irmã."},
	{SourceText: "We are going to the beach on Saturday.", TargetText: "Nós vamos à praia no sábado."},
	{SourceText: "I work as an engineer.", TargetText: "Eu trabalho como engenheiro."},
	{SourceText: "Excuse me, where is the bathroom?", TargetText: "Com licença, onde fica o banheiro?"},
	{SourceText: "I love listening to music.", TargetText: "Eu adoro ouvir música."},
	{SourceText: "It's raining a lot today.", TargetText: "Está chovendo muito hoje."},
	{SourceText: "My favorite color is blue.", TargetText: "Minha cor favorita é azul."},
	{SourceText: "I need to buy a ticket.", TargetText: "Eu preciso comprar uma passagem."},
	{SourceText: "Have a good trip!", TargetText: "Boa viagem!"},
}
