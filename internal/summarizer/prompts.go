package summarizer

// minutesDateFormat renders dates the way Slovak minutes expect them.
const minutesDateFormat = "02. January 2006"

const systemPrompt = `Si profesionálny asistent, ktorý zo záznamov stretnutí pripravuje formálne zápisnice.

Postup:
1. Prečítaj celý prepis stretnutia.
2. Zápisnicu napíš v slovenčine v požadovanom formáte.
3. Nevynechaj rozhodnutia, úlohy ani dôležité informácie.
4. Obsah rozdeľ do prehľadných sekcií.

Štýl: formálny, vecný a stručný. Bez emoji.`

// minutesPrompt takes the transcript and the meeting date.
const minutesPrompt = `Z nasledujúceho prepisu stretnutia priprav zápisnicu v slovenčine.

# PREPIS
%[1]s

---

# FORMÁT

# Zápisnica - [Téma stretnutia]

**Dátum:** %[2]s
**Čas:** [Začiatok] - [Koniec]
**Miesto:** [Online alebo miestnosť]
**Zapisovateľ:** [Meno]

## Účastníci
- [Meno]

## Program
1. [Bod programu]

## Priebeh stretnutia

### 1. [Téma]
[Čo sa prezentovalo, o čom sa diskutovalo, na čom sa dohodlo]

## Rozhodnutia
- [Rozhodnutie]

## Úlohy
- **[Meno]:** [Úloha]

## Ďalšie stretnutie
**Dátum:** [Dátum]
**Čas:** [Čas]
**Miesto:** [Miesto]

---

POKYNY:
- Píš po slovensky a formálne.
- Ak prepis obsahuje značky [SPEAKER_xx], použi ich na rozlíšenie rečníkov.
- Ak mená chýbajú, použi "Účastník 1", "Účastník 2" a podobne.
- Chýbajúci čas alebo miesto označ ako "Neuvedené".
- Použi markdown.

Zápisnica:`

const simplePrompt = `Zhrň prepis stretnutia do 5 až 7 kľúčových bodov v slovenčine. Píš vecne, bez emoji.

%s

Formát:
- Bod 1
- Bod 2
- ...`

// customPrompt takes the caller's instructions and the transcript.
const customPrompt = "%s\n\nPREPIS:\n%s"
